package config

import (
	"fmt"
	"strings"

	"github.com/liang2508/gmx-mmpbsa/internal/mmerrors"
)

// Validate applies the configuration's cross-field invariants, returning a
// ConfigError on the first fatal violation. Non-fatal advisories are
// appended to rc.Warnings instead of aborting.
func Validate(rc *RunConfig) error {
	if !rc.GBRun && !rc.PBRun && !rc.RismRun && !rc.NmodeRun {
		return mmerrors.ConfigError{Msg: "at least one solvation/entropy method must be enabled (gb, pb, rism, or nmode)"}
	}

	if rc.DecompRun {
		if !rc.GBRun && !rc.PBRun {
			return mmerrors.ConfigError{Namespace: "decomp", Msg: "decomprun requires gbrun or pbrun"}
		}
		switch rc.Decomp.Idecomp {
		case 1, 2, 3, 4:
		default:
			return mmerrors.ConfigError{Namespace: "decomp", Token: "idecomp", Msg: fmt.Sprintf("idecomp must be one of 1,2,3,4 when decomprun, got %d", rc.Decomp.Idecomp)}
		}
		if rc.PB.SanderAPBS {
			return mmerrors.ConfigError{Namespace: "pb", Token: "sander_apbs", Msg: "idecomp != 0 is incompatible with sander_apbs = 1"}
		}
		if rc.GB.IFQNT {
			return mmerrors.ConfigError{Namespace: "gb", Token: "ifqnt", Msg: "QM/MM is incompatible with decomposition"}
		}
	} else if rc.Decomp.Idecomp != 0 {
		return mmerrors.ConfigError{Namespace: "decomp", Token: "idecomp", Msg: "idecomp set but decomprun not triggered"}
	}

	if rc.AlaRun {
		switch rc.Ala.Mutant {
		case "ALA", "A", "GLY", "G":
		default:
			return mmerrors.ConfigError{Namespace: "ala", Token: "mutant", Msg: fmt.Sprintf("mutant must be ALA or GLY, got %q", rc.Ala.Mutant)}
		}
		if rc.Ala.Mutant == "A" {
			rc.Ala.Mutant = "ALA"
		}
		if rc.Ala.Mutant == "G" {
			rc.Ala.Mutant = "GLY"
		}
		if rc.General.NetCDF {
			return mmerrors.ConfigError{Namespace: "ala", Msg: "alarun is incompatible with netcdf trajectories"}
		}
	}

	if rc.General.StartFrame < 1 {
		rc.Warnings = append(rc.Warnings, mmerrors.Warning{Msg: fmt.Sprintf("startframe %d < 1, corrected to 1", rc.General.StartFrame)})
		rc.General.StartFrame = 1
	}
	if rc.General.EndFrame < rc.General.StartFrame {
		return mmerrors.ConfigError{Namespace: "general", Msg: fmt.Sprintf("endframe (%d) must be >= startframe (%d)", rc.General.EndFrame, rc.General.StartFrame)}
	}
	if rc.General.Interval < 1 {
		return mmerrors.ConfigError{Namespace: "general", Token: "interval", Msg: "interval must be >= 1"}
	}

	if rc.GB.SaltCon < 0 {
		return mmerrors.ConfigError{Namespace: "gb", Token: "saltcon", Msg: "saltcon must be >= 0"}
	}
	if rc.GB.SurfTen < 0 {
		return mmerrors.ConfigError{Namespace: "gb", Token: "surften", Msg: "surften must be >= 0"}
	}
	if rc.PB.Indi < 0 {
		return mmerrors.ConfigError{Namespace: "pb", Token: "indi", Msg: "indi must be >= 0"}
	}
	if rc.PB.Exdi < 0 {
		return mmerrors.ConfigError{Namespace: "pb", Token: "exdi", Msg: "exdi must be >= 0"}
	}
	if rc.PB.Scale < 0 {
		return mmerrors.ConfigError{Namespace: "pb", Token: "scale", Msg: "scale must be >= 0"}
	}
	if rc.GB.IntDiel > 10 {
		rc.Warnings = append(rc.Warnings, mmerrors.Warning{Msg: fmt.Sprintf("intdiel %.2f > 10 is unusually high", rc.GB.IntDiel)})
	}

	if rc.GB.IFQNT && !rc.StabilityOnly {
		if rc.GB.QMChargeRec+rc.GB.QMChargeLig != rc.GB.QMChargeCom {
			return mmerrors.ConfigError{Namespace: "gb", Msg: fmt.Sprintf("qmcharge_rec (%d) + qmcharge_lig (%d) must equal qmcharge_com (%d)",
				rc.GB.QMChargeRec, rc.GB.QMChargeLig, rc.GB.QMChargeCom)}
		}
	}

	switch strings.ToLower(rc.Rism.Thermo) {
	case "std", "gf", "both", "":
	default:
		return mmerrors.ConfigError{Namespace: "rism", Token: "thermo", Msg: fmt.Sprintf("thermo must be std, gf, or both, got %q", rc.Rism.Thermo)}
	}
	if (rc.RismRunStd || rc.RismRunGF) && !rc.RismRun {
		return mmerrors.InternalError{Msg: "rismrun_std/rismrun_gf set without rismrun"}
	}

	if rc.StabilityOnly && rc.General.Verbose < 2 {
		rc.Warnings = append(rc.Warnings, mmerrors.Warning{Msg: "stability calculation: verbose forced to 2"})
		rc.General.Verbose = 2
	}

	return nil
}

// Package config defines the RunConfig data model and the namespace
// schemas that drive namelist.Registry. Namespace vocabularies are
// declared as literal data tables, not reflected structs.
package config

import "github.com/liang2508/gmx-mmpbsa/namelist"

// Schemas returns the full, fixed vocabulary for every namespace:
// general, gb, pb, ala, nmode, decomp, rism.
func Schemas() []namelist.NamespaceSchema {
	return []namelist.NamespaceSchema{
		generalSchema(),
		gbSchema(),
		pbSchema(),
		alaSchema(),
		nmodeSchema(),
		decompSchema(),
		rismSchema(),
	}
}

func generalSchema() namelist.NamespaceSchema {
	return namelist.NamespaceSchema{Name: "general", Vars: []namelist.VarDef{
		{Name: "startframe", Kind: namelist.KindInt, Default: 1, MinCharsDecl: 5},
		{Name: "endframe", Kind: namelist.KindInt, Default: 9999999, MinCharsDecl: 4},
		{Name: "interval", Kind: namelist.KindInt, Default: 1, MinCharsDecl: 3},
		{Name: "temperature", Kind: namelist.KindFloat, Default: 298.15, MinCharsDecl: 4},
		{Name: "forcefields", Kind: namelist.KindList, Default: "oldff/leaprc.ff99SB, leaprc.gaff", MinCharsDecl: 4},
		{Name: "pbradii", Kind: namelist.KindInt, Default: 3, MinCharsDecl: 3},
		{Name: "strip_mask", Kind: namelist.KindString, Default: ":WAT:Na+:Cl-", MinCharsDecl: 6},
		{Name: "solvated_trajectory", Kind: namelist.KindInt, Default: 1, MinCharsDecl: 4},
		{Name: "keep_files", Kind: namelist.KindInt, Default: 2, MinCharsDecl: 4},
		{Name: "verbose", Kind: namelist.KindInt, Default: 1, MinCharsDecl: 4},
		{Name: "interaction_entropy", Kind: namelist.KindInt, Default: 0, MinCharsDecl: 3},
		{Name: "c2_entropy", Kind: namelist.KindInt, Default: 0, MinCharsDecl: 3},
		{Name: "qh_entropy", Kind: namelist.KindInt, Default: 0, MinCharsDecl: 3},
		{Name: "ie_segment", Kind: namelist.KindInt, Default: 25, MinCharsDecl: 3},
		{Name: "c2_segment", Kind: namelist.KindInt, Default: 25, MinCharsDecl: 3},
		{Name: "netcdf", Kind: namelist.KindInt, Default: 0, MinCharsDecl: 3},
		{Name: "sys_name", Kind: namelist.KindString, Default: "", MinCharsDecl: 4},
		{Name: "full_traj", Kind: namelist.KindInt, Default: 0, MinCharsDecl: 4},
		{Name: "exp_ki", Kind: namelist.KindFloat, Default: 0.0, MinCharsDecl: 4},
	}}
}

func gbSchema() namelist.NamespaceSchema {
	return namelist.NamespaceSchema{Name: "gb", Vars: []namelist.VarDef{
		{Name: "igb", Kind: namelist.KindInt, Default: 5, MinCharsDecl: 3},
		{Name: "extdiel", Kind: namelist.KindFloat, Default: 78.3, MinCharsDecl: 4},
		{Name: "intdiel", Kind: namelist.KindFloat, Default: 1.0, MinCharsDecl: 4},
		{Name: "saltcon", Kind: namelist.KindFloat, Default: 0.0, MinCharsDecl: 4},
		{Name: "surften", Kind: namelist.KindFloat, Default: 0.0072, MinCharsDecl: 4},
		{Name: "surfoff", Kind: namelist.KindFloat, Default: 0.0, MinCharsDecl: 5},
		{Name: "molsurf", Kind: namelist.KindInt, Default: 0, MinCharsDecl: 4},
		{Name: "probe", Kind: namelist.KindFloat, Default: 1.4, MinCharsDecl: 4},
		{Name: "msoffset", Kind: namelist.KindFloat, Default: 0.0, MinCharsDecl: 4},
		{Name: "ifqnt", Kind: namelist.KindInt, Default: 0, MinCharsDecl: 4},
		{Name: "qm_theory", Kind: namelist.KindString, Default: "", MinCharsDecl: 4},
		{Name: "qm_residues", Kind: namelist.KindString, Default: "", MinCharsDecl: 5},
		{Name: "qmcharge_com", Kind: namelist.KindInt, Default: 0, MinCharsDecl: 9},
		{Name: "qmcharge_rec", Kind: namelist.KindInt, Default: 0, MinCharsDecl: 9},
		{Name: "qmcharge_lig", Kind: namelist.KindInt, Default: 0, MinCharsDecl: 9},
		{Name: "qmcut", Kind: namelist.KindFloat, Default: 9999.0, MinCharsDecl: 5},
	}}
}

func pbSchema() namelist.NamespaceSchema {
	return namelist.NamespaceSchema{Name: "pb", Vars: []namelist.VarDef{
		{Name: "ntb", Kind: namelist.KindInt, Default: 0, MinCharsDecl: 3},
		{Name: "inp", Kind: namelist.KindInt, Default: 2, MinCharsDecl: 3},
		{Name: "radiopt", Kind: namelist.KindInt, Default: 1, MinCharsDecl: 4},
		{Name: "prbrad", Kind: namelist.KindFloat, Default: 1.4, MinCharsDecl: 4},
		{Name: "indi", Kind: namelist.KindFloat, Default: 1.0, MinCharsDecl: 3},
		{Name: "exdi", Kind: namelist.KindFloat, Default: 80.0, MinCharsDecl: 3},
		{Name: "scale", Kind: namelist.KindFloat, Default: 2.0, MinCharsDecl: 4},
		{Name: "istrng", Kind: namelist.KindFloat, Default: 0.0, MinCharsDecl: 4},
		{Name: "fillratio", Kind: namelist.KindFloat, Default: 4.0, MinCharsDecl: 4},
		{Name: "cavity_surften", Kind: namelist.KindFloat, Default: 0.0378, MinCharsDecl: 7},
		{Name: "sander_apbs", Kind: namelist.KindInt, Default: 0, MinCharsDecl: 7},
		{Name: "maxcyc", Kind: namelist.KindInt, Default: 1, MinCharsDecl: 4},
		{Name: "npbverb", Kind: namelist.KindInt, Default: 0, MinCharsDecl: 5},
	}}
}

func alaSchema() namelist.NamespaceSchema {
	return namelist.NamespaceSchema{Name: "ala", Vars: []namelist.VarDef{
		{Name: "mutant_only", Kind: namelist.KindInt, Default: 0, MinCharsDecl: 7},
		{Name: "mutant", Kind: namelist.KindString, Default: "ALA", MinCharsDecl: 3},
		{Name: "mutant_res", Kind: namelist.KindString, Default: "", MinCharsDecl: 7},
		{Name: "cas_intdiel", Kind: namelist.KindInt, Default: 0, MinCharsDecl: 4},
	}}
}

func nmodeSchema() namelist.NamespaceSchema {
	return namelist.NamespaceSchema{Name: "nmode", Vars: []namelist.VarDef{
		{Name: "nmstartframe", Kind: namelist.KindInt, Default: 1, MinCharsDecl: 6},
		{Name: "nmendframe", Kind: namelist.KindInt, Default: 1000000, MinCharsDecl: 6},
		{Name: "nminterval", Kind: namelist.KindInt, Default: 1, MinCharsDecl: 6},
		{Name: "maxcyc", Kind: namelist.KindInt, Default: 10000, MinCharsDecl: 3},
		{Name: "drms", Kind: namelist.KindFloat, Default: 0.001, MinCharsDecl: 3},
		{Name: "dielc", Kind: namelist.KindFloat, Default: 1.0, MinCharsDecl: 3},
		{Name: "nmode_igb", Kind: namelist.KindInt, Default: 1, MinCharsDecl: 7},
		{Name: "nmode_istrng", Kind: namelist.KindFloat, Default: 0.0, MinCharsDecl: 7},
	}}
}

func decompSchema() namelist.NamespaceSchema {
	return namelist.NamespaceSchema{Name: "decomp", Vars: []namelist.VarDef{
		{Name: "idecomp", Kind: namelist.KindInt, Default: 0, MinCharsDecl: 3},
		{Name: "dec_verbose", Kind: namelist.KindInt, Default: 0, MinCharsDecl: 4},
		{Name: "csv_format", Kind: namelist.KindInt, Default: 1, MinCharsDecl: 3},
		{Name: "print_res", Kind: namelist.KindString, Default: "within 6", MinCharsDecl: 3},
	}}
}

func rismSchema() namelist.NamespaceSchema {
	return namelist.NamespaceSchema{Name: "rism", Vars: []namelist.VarDef{
		{Name: "closure", Kind: namelist.KindString, Default: "kh", MinCharsDecl: 3},
		{Name: "buffer", Kind: namelist.KindFloat, Default: 14.0, MinCharsDecl: 3},
		{Name: "grdspc", Kind: namelist.KindFloat, Default: 0.5, MinCharsDecl: 3},
		{Name: "tolerance", Kind: namelist.KindFloat, Default: 1.0e-5, MinCharsDecl: 4},
		{Name: "thermo", Kind: namelist.KindString, Default: "std", MinCharsDecl: 3},
		{Name: "polardecomp", Kind: namelist.KindInt, Default: 0, MinCharsDecl: 5},
	}}
}

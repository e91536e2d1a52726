package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"
)

// main is separated from run/application to help with testing.
func main() {
	run(os.Args)
}

func run(args []string) {
	app := application()
	if err := app.Run(args); err != nil {
		log.Fatal(err)
	}
}

func application() *cli.App {
	return &cli.App{
		Name:  "gmxmmpbsa",
		Usage: "compute MM-PBSA/MM-GBSA binding free energies from GROMACS trajectories",

		Flags: []cli.Flag{
			&cli.StringFlag{Name: "i", Usage: "namelist input file", Value: "mmpbsa.in"},
			&cli.StringFlag{Name: "o", Usage: "text report output path", Value: "FINAL_RESULTS_MMPBSA.dat"},
			&cli.StringFlag{Name: "eo", Usage: "per-frame CSV dump path (optional)"},
			&cli.StringFlag{Name: "json", Usage: "structured archive output path (optional)"},
			&cli.StringFlag{Name: "cp", Usage: "complex topology path"},
			&cli.StringFlag{Name: "rp", Usage: "receptor topology path"},
			&cli.StringFlag{Name: "lp", Usage: "ligand topology path"},
			&cli.StringFlag{Name: "mcp", Usage: "mutant complex topology path"},
			&cli.StringFlag{Name: "mrp", Usage: "mutant receptor topology path"},
			&cli.StringFlag{Name: "y", Usage: "trajectory path(s), comma-separated for multiple-trajectory protocol"},
			&cli.IntFlag{Name: "frames", Usage: "frame count reported for the complex trajectory"},
			&cli.IntFlag{Name: "receptor-frames", Usage: "frame count reported for the receptor trajectory (defaults to -frames)"},
			&cli.IntFlag{Name: "ligand-frames", Usage: "frame count reported for the ligand trajectory (defaults to -frames)"},
			&cli.IntFlag{Name: "nranks", Usage: "number of simulated MPI ranks", Value: 1},
			&cli.BoolFlag{Name: "stability", Usage: "run in stability-only mode (no receptor/ligand topologies)"},
		},

		Commands: []*cli.Command{
			{
				Name:  "info",
				Usage: "parse and validate a namelist input file, then print the resolved configuration",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "i", Usage: "namelist input file", Value: "mmpbsa.in"},
					&cli.BoolFlag{Name: "stability", Usage: "treat as stability-only for validation purposes"},
				},
				Action: infoCommand,
			},
			{
				Name:  "report",
				Usage: "verify the blake3 checksum of a previously written structured archive",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "json", Usage: "structured archive input path", Required: true},
				},
				Action: reportCommand,
			},
		},

		Action: runCommand,
	}
}

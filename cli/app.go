// Package cli contains the armkin command line tool.
package cli

import (
	"io"

	"github.com/urfave/cli/v2"
)

// Flags.
const (
	flagConfig        = "config"
	flagDebug         = "debug"
	flagAngles        = "angles"
	flagRadians       = "radians"
	flagX             = "x"
	flagY             = "y"
	flagZ             = "z"
	flagL1            = "l1"
	flagL2            = "l2"
	flagLearningRate  = "learning-rate"
	flagTolerance     = "tolerance"
	flagMaxIterations = "max-iterations"
	flagScale         = "scale"
)

// App.Metadata keys.
const (
	metadataLogger = "logger"
	metadataConfig = "config"
)

func targetFlags() []cli.Flag {
	return []cli.Flag{
		&cli.Float64Flag{Name: flagX, Usage: "target x (required)"},
		&cli.Float64Flag{Name: flagY, Usage: "target y, up (required)"},
		&cli.Float64Flag{Name: flagZ, Usage: "target z (required)"},
	}
}

func anglesFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  flagAngles,
			Usage: "comma separated joint angles in chain order, e.g. `0,30,-45,0`",
		},
		&cli.BoolFlag{
			Name:  flagRadians,
			Usage: "read --angles as radians instead of degrees",
		},
	}
}

// NewApp returns a new app with the CLI API, Writer set to out, and ErrWriter
// set to errOut. Logs go to errOut.
func NewApp(out, errOut io.Writer) *cli.App {
	return &cli.App{
		Name:            "armkin",
		Usage:           "evaluate and solve the kinematics of a serial arm",
		HideHelpCommand: true,
		Writer:          out,
		ErrWriter:       errOut,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:      flagConfig,
				Aliases:   []string{"c"},
				Usage:     "load configuration from `FILE`",
				TakesFile: true,
			},
			&cli.BoolFlag{
				Name:    flagDebug,
				Aliases: []string{"vvv"},
				Usage:   "enable debug logging",
			},
		},
		Before: setupAction,
		Commands: []*cli.Command{
			{
				Name:      "fk",
				Usage:     "print where the end effector is for the given joint angles",
				UsageText: "armkin fk [--angles <a,b,c,d>] [--radians]",
				Flags:     anglesFlags(),
				Action:    ForwardAction,
			},
			{
				Name:      "ik2",
				Usage:     "solve base, shoulder and elbow in closed form for a target",
				UsageText: "armkin ik2 --x <x> --y <y> --z <z> [--l1 <length>] [--l2 <length>]",
				Flags: append(targetFlags(),
					&cli.Float64Flag{Name: flagL1, Usage: "length of the first link, defaults to the config"},
					&cli.Float64Flag{Name: flagL2, Usage: "length of the second link, defaults to the config"},
				),
				Action: TwoLinkAction,
			},
			{
				Name:      "solve",
				Usage:     "iteratively move the end effector toward a target with the Jacobian transpose",
				UsageText: "armkin solve --x <x> --y <y> --z <z> [other options]",
				Flags: append(append(targetFlags(), anglesFlags()...),
					&cli.Float64Flag{Name: flagLearningRate, Usage: "step size per iteration"},
					&cli.Float64Flag{Name: flagTolerance, Usage: "distance at which the solve stops"},
					&cli.IntFlag{Name: flagMaxIterations, Usage: "iteration budget"},
				),
				Action: SolveAction,
			},
			{
				Name:   "chain",
				Usage:  "print the configured chain",
				Action: ChainAction,
			},
			{
				Name:  "scene",
				Usage: "print the display scene of the chain",
				Flags: append(anglesFlags(),
					&cli.Float64Flag{Name: flagScale, Usage: "visual scale, defaults to the config"},
				),
				Action: SceneAction,
			},
			{
				Name:   "schema",
				Usage:  "print the JSON schema of the config file",
				Action: SchemaAction,
			},
		},
	}
}

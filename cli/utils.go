package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/golang/geo/r3"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"

	"go.viam.com/armkin/config"
	"go.viam.com/armkin/logging"
	"go.viam.com/armkin/referenceframe"
	"go.viam.com/armkin/utils"
)

// setupAction builds the logger and loads the config before any command runs.
func setupAction(c *cli.Context) error {
	logger := logging.NewBlankLogger("armkin")
	logger.AddAppender(logging.NewWriterAppender(c.App.ErrWriter))
	logger.SetLevel(logging.INFO)
	if c.Bool(flagDebug) {
		logger.SetLevel(logging.DEBUG)
	}

	cfg := config.DefaultConfig()
	if path := c.String(flagConfig); path != "" {
		var err error
		if cfg, err = config.Read(path, logger); err != nil {
			return errors.Wrapf(err, "cannot load config %q", path)
		}
		if !c.Bool(flagDebug) {
			logger.SetLevel(cfg.Level())
		}
		logger.Debugw("loaded config", "path", path, "level", logger.GetLevel().String())
	}

	logging.ReplaceGlobal(logger)
	if c.App.Metadata == nil {
		c.App.Metadata = map[string]interface{}{}
	}
	c.App.Metadata[metadataLogger] = logger
	c.App.Metadata[metadataConfig] = cfg
	return nil
}

func loggerFromContext(c *cli.Context) (logging.Logger, error) {
	return utils.AssertType[logging.Logger](c.App.Metadata[metadataLogger])
}

func configFromContext(c *cli.Context) (*config.Config, error) {
	return utils.AssertType[*config.Config](c.App.Metadata[metadataConfig])
}

// parseFloatList parses a comma separated list of numbers, reporting every bad entry.
func parseFloatList(s string) ([]float64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var errAll error
	values := lo.Map(strings.Split(s, ","), func(item string, i int) float64 {
		v, err := strconv.ParseFloat(strings.TrimSpace(item), 64)
		if err != nil {
			multierr.AppendInto(&errAll, errors.Errorf("entry %d (%q) is not a number", i, item))
		}
		return v
	})
	return values, errAll
}

// applyAnglesFlag sets the chain angles from --angles, if given, honoring --radians.
func applyAnglesFlag(c *cli.Context, chain *referenceframe.Chain) error {
	values, err := parseFloatList(c.String(flagAngles))
	if err != nil {
		return errors.Wrapf(err, "invalid --%s", flagAngles)
	}
	if values == nil {
		return nil
	}
	inputs := referenceframe.InputsFromDegrees(values)
	if c.Bool(flagRadians) {
		inputs = referenceframe.FloatsToInputs(values)
	}
	return chain.SetAngles(inputs)
}

func formatVector(v r3.Vector) string {
	return fmt.Sprintf("(%.4f, %.4f, %.4f)", displayZero(v.X), displayZero(v.Y), displayZero(v.Z))
}

// displayZero keeps round-off below the printed precision from showing up as "-0.0000".
func displayZero(f float64) float64 {
	if math.Abs(f) < 5e-5 {
		return 0
	}
	return f
}

func formatDegrees(inputs []referenceframe.Input) []string {
	return lo.Map(referenceframe.InputsToDegrees(inputs), func(deg float64, _ int) string {
		return fmt.Sprintf("%.2f", deg)
	})
}

func newTable(title string, header table.Row) table.Writer {
	t := table.NewWriter()
	t.SetTitle(title)
	t.AppendHeader(header)
	return t
}

func printf(c *cli.Context, format string, a ...interface{}) {
	fmt.Fprintf(c.App.Writer, format+"\n", a...)
}

func statusf(c *cli.Context, attr color.Attribute, format string, a ...interface{}) {
	color.New(attr, color.Bold).Fprintf(c.App.Writer, format+"\n", a...)
}

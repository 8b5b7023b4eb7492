package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/me/groupsched/internal/parser"
	"github.com/me/groupsched/pkg/model"
)

// scenarioFlags selects a scenario either from a scenario file argument or
// from a flat catalog and group file pair, with timeline overrides.
type scenarioFlags struct {
	catalog string
	groups  string
	name    string
	start   float64
	end     float64
	ptr     float64
	unit    float64
}

func (f *scenarioFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.catalog, "catalog", "", "CSV task catalog (used without a scenario file)")
	cmd.Flags().StringVar(&f.groups, "groups", "", "Group membership file, one group per line")
	cmd.Flags().StringVar(&f.name, "name", "", "Scenario name (default: file name)")
	cmd.Flags().Float64Var(&f.start, "start", 0, "Timeline start")
	cmd.Flags().Float64Var(&f.end, "end", 0, "Timeline end")
	cmd.Flags().Float64Var(&f.ptr, "ptr", 0, "Initial clock pointer (default: start)")
	cmd.Flags().Float64Var(&f.unit, "unit", 1, "Tick unit")
}

// load builds the scenario and returns it together with the input files it
// was read from.
func (f *scenarioFlags) load(cmd *cobra.Command, args []string) (*model.Scenario, []string, error) {
	p := parser.New(logger)

	var sc *model.Scenario
	var files []string
	switch {
	case len(args) == 1:
		var err error
		sc, err = p.LoadScenario(args[0])
		if err != nil {
			return nil, nil, err
		}
		files = append(files, args[0])
		dir := filepath.Dir(args[0])
		for _, ref := range []string{sc.Catalog, sc.Dependency} {
			if ref == "" {
				continue
			}
			if !filepath.IsAbs(ref) {
				ref = filepath.Join(dir, ref)
			}
			files = append(files, ref)
		}
	case f.catalog != "" && f.groups != "":
		if !cmd.Flags().Changed("end") {
			return nil, nil, fmt.Errorf("--end is required with --catalog and --groups")
		}
		name := f.name
		if name == "" {
			name = strings.TrimSuffix(filepath.Base(f.catalog), filepath.Ext(f.catalog))
		}
		var err error
		sc, err = p.BuildScenario(name, f.catalog, f.groups, model.Timeline{})
		if err != nil {
			return nil, nil, err
		}
		files = append(files, f.catalog, f.groups)
	default:
		return nil, nil, fmt.Errorf("give a scenario file or both --catalog and --groups")
	}

	if f.name != "" {
		sc.Name = f.name
	}
	flags := cmd.Flags()
	if flags.Changed("start") {
		sc.Timeline.Start = f.start
	}
	if flags.Changed("end") {
		sc.Timeline.End = f.end
	}
	if flags.Changed("ptr") {
		ptr := f.ptr
		sc.Timeline.Ptr = &ptr
	}
	if flags.Changed("unit") {
		unit := f.unit
		sc.Timeline.Unit = &unit
	}
	return sc, files, nil
}

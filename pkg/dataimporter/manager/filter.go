package manager

import (
	"encoding/json"
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/travigo/linkedconnections/pkg/dataimporter/datasets"
	"github.com/travigo/linkedconnections/pkg/lc"
	"github.com/travigo/linkedconnections/pkg/parsing"
	"github.com/travigo/linkedconnections/pkg/util"
)

const (
	kindConnection = "connection"
	kindVehicle    = "vehicle"
	kindAlert      = "alert"
)

// recordFilter evaluates a dataset filter expression. The environment is the
// record's JSON form plus a "kind" field (connection, vehicle or alert).
type recordFilter struct {
	program *vm.Program
}

func newRecordFilter(expression string) (*recordFilter, error) {
	if expression == "" {
		return &recordFilter{}, nil
	}

	program, err := expr.Compile(expression, expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile filter %q: %w", expression, err)
	}

	return &recordFilter{program: program}, nil
}

// Match reports whether the record passes. Evaluation errors, for example
// comparing a missing field, count as no match.
func (f *recordFilter) Match(pctx *parsing.Context, kind string, record any) bool {
	if f.program == nil {
		return true
	}

	env, err := recordEnv(kind, record)
	if err != nil {
		pctx.Log().Debug().Err(err).Str("kind", kind).Msg("Cannot build filter environment")
		return false
	}

	output, err := expr.Run(f.program, env)
	if err != nil {
		pctx.Log().Debug().Err(err).Str("kind", kind).Msg("Filter evaluation failed")
		return false
	}

	matched, ok := output.(bool)
	return ok && matched
}

func recordEnv(kind string, record any) (map[string]any, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return nil, err
	}

	env := map[string]any{}
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	env["kind"] = kind

	return env, nil
}

// filterCollection applies the supported objects, ignore lists and filter
// expression of the dataset.
func filterCollection(pctx *parsing.Context, dataset *datasets.DataSet, collection lc.Collection) (lc.Collection, error) {
	filter, err := newRecordFilter(dataset.Filter)
	if err != nil {
		return lc.Collection{}, err
	}

	supported := dataset.SupportedObjects
	ignore := dataset.IgnoreObjects

	if !supported.All() {
		if !supported.Connections {
			collection.Connections = nil
		}
		if !supported.VehiclePositions {
			collection.VehiclePositions = nil
		}
		if !supported.ServiceAlerts {
			collection.ServiceAlerts = nil
		}
	}

	util.InPlaceFilter(&collection.Connections, func(connection lc.Connection) bool {
		if ignore.IgnoresOperator(connection.Operator) || ignore.IgnoresLine(connection.Route) {
			return false
		}
		return filter.Match(pctx, kindConnection, connection)
	})

	util.InPlaceFilter(&collection.VehiclePositions, func(position lc.VehiclePosition) bool {
		if ignore.IgnoresOperator(position.OperatorRef) || ignore.IgnoresLine(position.LineRef) {
			return false
		}
		return filter.Match(pctx, kindVehicle, position)
	})

	util.InPlaceFilter(&collection.ServiceAlerts, func(alert lc.ServiceAlert) bool {
		if ignoresAllLines(ignore, alert.AffectedLines) {
			return false
		}
		return filter.Match(pctx, kindAlert, alert)
	})

	return collection, nil
}

// ignoresAllLines is true when an alert only concerns ignored lines.
func ignoresAllLines(ignore datasets.IgnoreObjects, lines []lc.AffectedLine) bool {
	if len(lines) == 0 {
		return false
	}

	for _, line := range lines {
		if !ignore.IgnoresLine(&line.LineRef) {
			return false
		}
	}

	return true
}

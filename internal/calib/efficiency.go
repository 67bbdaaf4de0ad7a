package calib

import "fmt"

// EfficiencyTable is a binned, nominal-only lookup of the simulated
// tagging efficiency. It carries no systematic variation: ValuePlus and
// ValueMinus return the nominal value.
type EfficiencyTable struct {
	edges  []float64
	values []float64
}

// NewEfficiencyTable builds a table from bin lower edges and per-bin
// efficiencies. Edges must be strictly increasing and every efficiency
// must lie in [0, 1].
func NewEfficiencyTable(edges, values []float64) (*EfficiencyTable, error) {
	if err := checkEdges(edges); err != nil {
		return nil, err
	}
	if len(values) != len(edges) {
		return nil, fmt.Errorf("%d efficiency values for %d edges: %w", len(values), len(edges), ErrConfiguration)
	}
	for i, v := range values {
		if v < 0 || v > 1 {
			return nil, fmt.Errorf("efficiency %g in bin %d outside [0,1]: %w", v, i, ErrConfiguration)
		}
	}
	return &EfficiencyTable{edges: edges, values: values}, nil
}

func (t *EfficiencyTable) Value(pt float64) float64 {
	return t.values[findBin(t.edges, pt)]
}

func (t *EfficiencyTable) ValuePlus(pt float64) float64  { return t.Value(pt) }
func (t *EfficiencyTable) ValueMinus(pt float64) float64 { return t.Value(pt) }

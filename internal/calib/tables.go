package calib

import "fmt"

// Embedded calibration constants. Heavy-flavor scale factors and their
// binned uncertainties follow the published pt-binned measurement for
// the CSV tagger working points; light-flavor mistag scale factors are
// the published cubic fits with their upper/lower bands. Tagging
// efficiencies were derived from simulation separately for the electron
// and muon selections.

// Heavy-flavor scale factor fit domain and uncertainty bin lower edges.
const (
	heavyPtMin = 30.0
	heavyPtMax = 670.0
)

var heavyErrEdges = []float64{30, 40, 50, 60, 70, 80, 100, 120, 160, 210, 260, 320, 400, 500}

var heavyScaleFits = map[Tagger]FitFunc{
	TaggerCSVL: {Kind: FitRational, Coeffs: []float64{1.02658, 0.0195388, 0.0209145}},
	TaggerCSVM: {Kind: FitRational, Coeffs: []float64{0.6981, 0.414063, 0.300155}},
	TaggerCSVT: {Kind: FitRational, Coeffs: []float64{0.901615, 0.552628, 0.547195}},
}

var heavyScaleErrs = map[Tagger][]float64{
	TaggerCSVL: {
		0.0188743, 0.0161816, 0.0139824, 0.0152644, 0.0161226,
		0.0157396, 0.0161619, 0.0168747, 0.0257175, 0.026424,
		0.0264928, 0.0315127, 0.030734, 0.0438259,
	},
	TaggerCSVM: {
		0.0295675, 0.0295095, 0.0210867, 0.0219349, 0.0227033,
		0.0204062, 0.0185857, 0.0256242, 0.0383341, 0.0409675,
		0.0420284, 0.0541299, 0.0578761, 0.0655432,
	},
	TaggerCSVT: {
		0.0515703, 0.0264008, 0.0272757, 0.0275565, 0.0248745,
		0.0218456, 0.0253845, 0.0239588, 0.0271791, 0.0273912,
		0.0379822, 0.0411624, 0.0786307, 0.0866832,
	},
}

// Charm scale factors reuse the b-quark fit with doubled uncertainties;
// the measurement quotes no independent charm fit.
const charmErrFactor = 2.0

type lightFits struct {
	central FitFunc
	up      FitFunc
	down    FitFunc
}

var lightScaleFits = map[Tagger]lightFits{
	TaggerCSVL: {
		central: FitFunc{Kind: FitPoly, Coeffs: []float64{1.04901, 0.00152181, -3.43568e-06, 2.50327e-09}},
		up:      FitFunc{Kind: FitPoly, Coeffs: []float64{1.12424, 0.00201136, -4.64021e-06, 3.63131e-09}},
		down:    FitFunc{Kind: FitPoly, Coeffs: []float64{0.973773, 0.00103049, -2.2277e-06, 1.37208e-09}},
	},
	TaggerCSVM: {
		central: FitFunc{Kind: FitPoly, Coeffs: []float64{1.10649, 0.00117574, -3.02143e-06, 2.24424e-09}},
		up:      FitFunc{Kind: FitPoly, Coeffs: []float64{1.25056, 0.00164219, -4.51519e-06, 3.49832e-09}},
		down:    FitFunc{Kind: FitPoly, Coeffs: []float64{0.962424, 0.000707239, -1.54241e-06, 1.00231e-09}},
	},
	TaggerCSVT: {
		central: FitFunc{Kind: FitPoly, Coeffs: []float64{1.19275, -0.00191042, 2.92205e-06, -1.10417e-09}},
		up:      FitFunc{Kind: FitPoly, Coeffs: []float64{1.38002, -0.00232072, 3.78147e-06, -1.44883e-09}},
		down:    FitFunc{Kind: FitPoly, Coeffs: []float64{1.00563, -0.00150571, 2.08134e-06, -7.74051e-10}},
	},
}

// Efficiency tables, binned in pt per tagger, channel, and flavor.
var effEdges = []float64{20, 30, 40, 50, 60, 70, 80, 100, 120, 160, 210, 260, 320}

var effTables = map[Tagger]map[Channel]map[Flavor][]float64{
	TaggerCSVL: {
		ChannelElectron: {
			FlavorB: {
				0.7188, 0.7844, 0.8102, 0.8228, 0.8298, 0.8344, 0.8383,
				0.8418, 0.8423, 0.8389, 0.8294, 0.8177, 0.8003,
			},
			FlavorC: {
				0.3814, 0.4124, 0.4313, 0.4428, 0.4502, 0.4557, 0.4608,
				0.4663, 0.4694, 0.4706, 0.4680, 0.4628, 0.4527,
			},
			FlavorLight: {
				0.0863, 0.0958, 0.1028, 0.1083, 0.1131, 0.1175, 0.1230,
				0.1303, 0.1374, 0.1476, 0.1585, 0.1692, 0.1828,
			},
		},
		ChannelMuon: {
			FlavorB: {
				0.7152, 0.7809, 0.8071, 0.8199, 0.8272, 0.8320, 0.8361,
				0.8399, 0.8406, 0.8374, 0.8281, 0.8166, 0.7994,
			},
			FlavorC: {
				0.3791, 0.4103, 0.4294, 0.4411, 0.4487, 0.4543, 0.4596,
				0.4653, 0.4686, 0.4700, 0.4676, 0.4626, 0.4527,
			},
			FlavorLight: {
				0.0857, 0.0951, 0.1021, 0.1077, 0.1125, 0.1169, 0.1224,
				0.1298, 0.1369, 0.1472, 0.1582, 0.1690, 0.1827,
			},
		},
	},
	TaggerCSVM: {
		ChannelElectron: {
			FlavorB: {
				0.5852, 0.6556, 0.6858, 0.7014, 0.7106, 0.7164, 0.7212,
				0.7249, 0.7242, 0.7164, 0.7002, 0.6813, 0.6546,
			},
			FlavorC: {
				0.1647, 0.1863, 0.2003, 0.2091, 0.2150, 0.2193, 0.2233,
				0.2274, 0.2294, 0.2290, 0.2254, 0.2196, 0.2090,
			},
			FlavorLight: {
				0.0117, 0.0125, 0.0132, 0.0139, 0.0145, 0.0151, 0.0160,
				0.0173, 0.0187, 0.0209, 0.0234, 0.0260, 0.0295,
			},
		},
		ChannelMuon: {
			FlavorB: {
				0.5814, 0.6519, 0.6825, 0.6983, 0.7077, 0.7136, 0.7187,
				0.7227, 0.7222, 0.7148, 0.6988, 0.6802, 0.6538,
			},
			FlavorC: {
				0.1632, 0.1849, 0.1990, 0.2079, 0.2139, 0.2183, 0.2224,
				0.2267, 0.2288, 0.2285, 0.2250, 0.2194, 0.2090,
			},
			FlavorLight: {
				0.0116, 0.0124, 0.0131, 0.0137, 0.0143, 0.0149, 0.0158,
				0.0172, 0.0186, 0.0208, 0.0233, 0.0259, 0.0295,
			},
		},
	},
	TaggerCSVT: {
		ChannelElectron: {
			FlavorB: {
				0.4246, 0.5032, 0.5394, 0.5586, 0.5699, 0.5770, 0.5825,
				0.5860, 0.5838, 0.5716, 0.5478, 0.5205, 0.4833,
			},
			FlavorC: {
				0.0366, 0.0428, 0.0472, 0.0501, 0.0521, 0.0536, 0.0550,
				0.0564, 0.0570, 0.0566, 0.0549, 0.0525, 0.0485,
			},
			FlavorLight: {
				0.0014, 0.0015, 0.0016, 0.0017, 0.0018, 0.0019, 0.0021,
				0.0023, 0.0026, 0.0030, 0.0035, 0.0040, 0.0047,
			},
		},
		ChannelMuon: {
			FlavorB: {
				0.4211, 0.4997, 0.5362, 0.5556, 0.5671, 0.5744, 0.5801,
				0.5838, 0.5818, 0.5699, 0.5465, 0.5195, 0.4827,
			},
			FlavorC: {
				0.0361, 0.0424, 0.0468, 0.0497, 0.0518, 0.0533, 0.0547,
				0.0562, 0.0568, 0.0564, 0.0548, 0.0524, 0.0485,
			},
			FlavorLight: {
				0.0014, 0.0015, 0.0016, 0.0017, 0.0018, 0.0019, 0.0020,
				0.0022, 0.0025, 0.0029, 0.0034, 0.0039, 0.0047,
			},
		},
	},
}

// DefaultSet assembles a FlavorSet from the embedded tables for the
// given tagger working point and selection channel.
func DefaultSet(tagger Tagger, channel Channel) (*FlavorSet, error) {
	fit, ok := heavyScaleFits[tagger]
	if !ok {
		return nil, fmt.Errorf("no embedded tables for tagger %q: %w", tagger, ErrConfiguration)
	}
	effs, ok := effTables[tagger][channel]
	if !ok {
		return nil, fmt.Errorf("no embedded efficiency tables for tagger %q channel %q: %w",
			tagger, channel, ErrConfiguration)
	}

	bScale, err := NewContinuousScale(fit, heavyPtMin, heavyPtMax, heavyErrEdges, heavyScaleErrs[tagger])
	if err != nil {
		return nil, err
	}

	cErrs := make([]float64, len(heavyScaleErrs[tagger]))
	for i, e := range heavyScaleErrs[tagger] {
		cErrs[i] = charmErrFactor * e
	}
	cScale, err := NewContinuousScale(fit, heavyPtMin, heavyPtMax, heavyErrEdges, cErrs)
	if err != nil {
		return nil, err
	}

	lf := lightScaleFits[tagger]
	lScale, err := NewBandedScale(lf.central, lf.up, lf.down)
	if err != nil {
		return nil, err
	}

	pairs := make(map[Flavor]Pair, len(Flavors))
	scales := map[Flavor]Curve{FlavorB: bScale, FlavorC: cScale, FlavorLight: lScale}
	for _, f := range Flavors {
		eff, err := NewEfficiencyTable(effEdges, effs[f])
		if err != nil {
			return nil, fmt.Errorf("efficiency table for flavor %q: %w", f, err)
		}
		pairs[f] = Pair{Scale: scales[f], Eff: eff}
	}
	return NewSet(tagger, channel, pairs)
}

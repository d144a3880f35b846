package gan

import (
	"errors"
	"math"
	"testing"

	"github.com/manningwu07/GAIN/params"
	"github.com/manningwu07/GAIN/tensor"
	"github.com/manningwu07/GAIN/utils"
)

// scenario returns the B=2, T=4, D=1 batch with mask [[1,1,0,1],[1,0,0,1]].
func scenario(t *testing.T) (x, m *tensor.Batch) {
	t.Helper()
	x, err := tensor.FromSlice(2, 4, 1, []float64{
		0.10, 0.45, 0.80, 0.30,
		0.95, 0.60, 0.25, 0.05,
	})
	if err != nil {
		t.Fatal(err)
	}
	m, err = tensor.FromSlice(2, 4, 1, []float64{
		1, 1, 0, 1,
		1, 0, 0, 1,
	})
	if err != nil {
		t.Fatal(err)
	}
	return x, m
}

func equalRaw(a, b *tensor.Batch) bool {
	if !a.SameShape(b) {
		return false
	}
	for i := range a.Raw() {
		if a.Raw()[i] != b.Raw()[i] {
			return false
		}
	}
	return true
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9*math.Max(1, math.Abs(b))
}

func TestGeneratorShapeAndObserved(t *testing.T) {
	x, m := scenario(t)
	gen, err := NewGenerator(16, 2)
	if err != nil {
		t.Fatal(err)
	}
	g, err := gen.Generate(x, m, utils.NewStream(1))
	if err != nil {
		t.Fatal(err)
	}
	if !g.SameShape(x) {
		t.Fatalf("generator output %v, want %v", g, x)
	}
	imputed, err := tensor.Impute(x, m, g)
	if err != nil {
		t.Fatal(err)
	}
	for i, mv := range m.Raw() {
		if mv == 1 && imputed.Raw()[i] != x.Raw()[i] {
			t.Fatalf("observed position %d changed: %v -> %v", i, x.Raw()[i], imputed.Raw()[i])
		}
		if mv == 0 && imputed.Raw()[i] != g.Raw()[i] {
			t.Fatalf("missing position %d not taken from generator", i)
		}
	}
}

func TestGeneratorRejectsMismatchedMask(t *testing.T) {
	x, _ := scenario(t)
	m, _ := tensor.New(2, 3, 1)
	gen, _ := NewGenerator(4, 1)
	if _, err := gen.Generate(x, m, utils.NewStream(1)); !errors.Is(err, tensor.ErrShape) {
		t.Fatalf("mismatched mask accepted, err = %v", err)
	}
	if _, err := NewGenerator(4, 0); err == nil {
		t.Fatalf("zero layers accepted")
	}
}

func TestSelectiveSingleEqualsGenerator(t *testing.T) {
	x, m := scenario(t)
	sel, err := NewSelectiveGenerator(8, 2, 1, 0)
	if err != nil {
		t.Fatal(err)
	}
	got, err := sel.Generate(x, m, utils.NewStream(42))
	if err != nil {
		t.Fatal(err)
	}

	child := utils.SplitStreams(utils.NewStream(42), 1)[0]
	want, err := sel.Gen.Generate(x, m, child)
	if err != nil {
		t.Fatal(err)
	}
	if !equalRaw(got, want) {
		t.Fatalf("K=1 selective output differs from a single generator run")
	}
}

func TestSelectiveIsMeanOfBranches(t *testing.T) {
	x, m := scenario(t)
	const k = 4
	sel, _ := NewSelectiveGenerator(8, 1, k, 2)
	got, err := sel.Generate(x, m, utils.NewStream(3))
	if err != nil {
		t.Fatal(err)
	}

	streams := utils.SplitStreams(utils.NewStream(3), k)
	want := make([]float64, x.Len())
	for _, s := range streams {
		o, err := sel.Gen.Generate(x, m, s)
		if err != nil {
			t.Fatal(err)
		}
		for i, v := range o.Raw() {
			want[i] += v
		}
	}
	for i := range want {
		want[i] /= k
		if !approxEqual(got.Raw()[i], want[i]) {
			t.Fatalf("index %d: got %v, want mean %v", i, got.Raw()[i], want[i])
		}
	}
}

func TestSelectiveSeedsDiffer(t *testing.T) {
	x, m := scenario(t)
	sel, _ := NewSelectiveGenerator(16, 2, 3, 0)
	a, err := sel.Generate(x, m, utils.NewStream(100))
	if err != nil {
		t.Fatal(err)
	}
	b, err := sel.Generate(x, m, utils.NewStream(101))
	if err != nil {
		t.Fatal(err)
	}
	if equalRaw(a, b) {
		t.Fatalf("different seeds gave identical selective outputs")
	}
	c, _ := sel.Generate(x, m, utils.NewStream(100))
	if !equalRaw(a, c) {
		t.Fatalf("same seed gave different selective outputs")
	}
}

func TestDiscriminatorRange(t *testing.T) {
	rng := utils.NewStream(8)
	for _, shape := range [][3]int{{1, 1, 1}, {2, 4, 1}, {5, 6, 3}} {
		x, _ := tensor.FromSlice(shape[0], shape[1], shape[2],
			utils.RandomArray(rng, shape[0]*shape[1]*shape[2], 1))
		for _, hidden := range []int{0, 8, 128} {
			scores := Discriminator{Hidden: hidden}.Score(x, rng)
			if len(scores) != shape[0] {
				t.Fatalf("%v: %d scores, want %d", shape, len(scores), shape[0])
			}
			for i, p := range scores {
				if !(p > 0 && p < 1) {
					t.Fatalf("%v hidden=%d: score[%d] = %v outside (0,1)", shape, hidden, i, p)
				}
			}
		}
	}
}

func TestDiscriminatorLoss(t *testing.T) {
	dReal := []float64{0.5, 0.5}
	dFake := []float64{0.5, 0.5}
	split := DiscriminatorLoss(dReal, dFake, params.AggSplit)
	want := -2 * math.Log(0.5+Epsilon)
	if math.Abs(split-want) > 1e-9 {
		t.Fatalf("split loss = %v, want %v", split, want)
	}
	concat := DiscriminatorLoss(dReal, dFake, params.AggConcat)
	if math.Abs(concat-split/2) > 1e-12 {
		t.Fatalf("concat loss = %v, want half of split %v", concat, split/2)
	}
	// Saturated scores stay finite thanks to epsilon.
	sat := DiscriminatorLoss([]float64{0}, []float64{1}, params.AggSplit)
	if math.IsInf(sat, 0) || math.IsNaN(sat) {
		t.Fatalf("saturated loss not finite: %v", sat)
	}
}

func TestRunScenario(t *testing.T) {
	x, m := scenario(t)
	for _, mode := range []params.Mode{params.ModeSingle, params.ModeSelective} {
		t.Run(string(mode), func(t *testing.T) {
			cfg := params.Default()
			cfg.Epochs = 3
			tr, err := NewTrainer(cfg, mode)
			if err != nil {
				t.Fatal(err)
			}
			var rounds []Round
			tr.OnRound = func(r Round) { rounds = append(rounds, r) }

			hist, err := tr.Run(x, m, utils.NewStream(2024))
			if err != nil {
				t.Fatal(err)
			}
			if len(hist.DLoss) != 3 || len(hist.GLoss) != 3 || len(rounds) != 3 {
				t.Fatalf("got %d d-losses, %d g-losses, %d rounds; want 3 each",
					len(hist.DLoss), len(hist.GLoss), len(rounds))
			}
			for r := 0; r < 3; r++ {
				if !utils.AllFinite([]float64{hist.DLoss[r], hist.GLoss[r]}) {
					t.Fatalf("round %d: non-finite losses %v %v", r+1, hist.DLoss[r], hist.GLoss[r])
				}
				if hist.GLoss[r] < 0 {
					t.Fatalf("round %d: negative generator loss %v", r+1, hist.GLoss[r])
				}
				if rounds[r].Epoch != r+1 {
					t.Fatalf("round %d reported epoch %d", r+1, rounds[r].Epoch)
				}
			}

			// Observed coordinates contribute nothing: the G loss equals the
			// squared error summed over missing coordinates divided by all 8.
			imp := hist.Imputed
			missingSum := 0.0
			for i, mv := range m.Raw() {
				d := x.Raw()[i] - imp.Raw()[i]
				if mv == 1 && d != 0 {
					t.Fatalf("observed coordinate %d has error %v", i, d)
				}
				if mv == 0 {
					missingSum += d * d
				}
			}
			if !approxEqual(hist.GLoss[2], missingSum/8) {
				t.Fatalf("last G loss %v, want %v", hist.GLoss[2], missingSum/8)
			}
			if !approxEqual(hist.RMSE, math.Sqrt(missingSum/3)) {
				t.Fatalf("RMSE %v, want %v", hist.RMSE, math.Sqrt(missingSum/3))
			}
		})
	}
}

func TestRunZeroEpochs(t *testing.T) {
	x, m := scenario(t)
	cfg := params.Default()
	cfg.Epochs = 0
	tr, err := NewTrainer(cfg, params.ModeSingle)
	if err != nil {
		t.Fatal(err)
	}
	hist, err := tr.Run(x, m, utils.NewStream(1))
	if err != nil {
		t.Fatal(err)
	}
	if hist.Len() != 0 || hist.Imputed != nil {
		t.Fatalf("zero epochs produced %d rounds", hist.Len())
	}
	if d, _, g, _ := hist.Summary(); d != 0 || g != 0 {
		t.Fatalf("empty summary = %v %v", d, g)
	}
}

func TestRunReproducible(t *testing.T) {
	x, m := scenario(t)
	cfg := params.Default()
	cfg.Epochs = 2
	tr, _ := NewTrainer(cfg, params.ModeSelective)
	a, err := tr.Run(x, m, utils.NewStream(77))
	if err != nil {
		t.Fatal(err)
	}
	b, _ := tr.Run(x, m, utils.NewStream(77))
	for i := range a.DLoss {
		if a.DLoss[i] != b.DLoss[i] || a.GLoss[i] != b.GLoss[i] {
			t.Fatalf("round %d differs under the same seed", i+1)
		}
	}
}

func TestNewTrainerRejectsBoth(t *testing.T) {
	if _, err := NewTrainer(params.Default(), params.ModeBoth); !errors.Is(err, params.ErrConfig) {
		t.Fatalf("ModeBoth accepted by NewTrainer, err = %v", err)
	}
}

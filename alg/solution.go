package alg

import (
	"math"
	"math/rand"

	"github.com/lzkmylz/Research-on-Mission-Planning-Algorithms-for-Large-scale-Hybrid-Constellations/internal/utils"
	"gonum.org/v1/gonum/mat"
)

// encodingColumns is the per-task width of the search encoding:
// imaging-opportunity selector, downlink-opportunity selector,
// strip-extension-rate selector, each in [0, 1].
const encodingColumns = 3

// Solution is the continuous encoding the search walks over: one row per
// task, three values per row. It is owned by a single optimizer run; every
// neighbor is generated on an independent copy.
type Solution struct {
	Encoding *mat.Dense

	Objective  float64
	Feasible   bool
	Violations []string
}

// NewRandomSolution draws a uniformly random encoding for numTasks tasks.
func NewRandomSolution(numTasks int, rng *rand.Rand) *Solution {
	data := make([]float64, numTasks*encodingColumns)
	for i := range data {
		data[i] = rng.Float64()
	}
	return &Solution{
		Encoding: mat.NewDense(numTasks, encodingColumns, data),
		Feasible: true,
	}
}

// NewZeroSolution builds an all-zero encoding, mostly useful in tests.
func NewZeroSolution(numTasks int) *Solution {
	return &Solution{
		Encoding: mat.NewDense(numTasks, encodingColumns, nil),
		Feasible: true,
	}
}

// NumTasks is the number of encoding rows.
func (s *Solution) NumTasks() int {
	rows, _ := s.Encoding.Dims()
	return rows
}

// Clone returns a deep copy; mutating the copy never touches the parent.
func (s *Solution) Clone() *Solution {
	violations := make([]string, len(s.Violations))
	copy(violations, s.Violations)
	return &Solution{
		Encoding:   mat.DenseCopyOf(s.Encoding),
		Objective:  s.Objective,
		Feasible:   s.Feasible,
		Violations: violations,
	}
}

// ImagingCode returns the raw v1 selector of a task.
func (s *Solution) ImagingCode(taskIdx int) float64 {
	return s.Encoding.At(taskIdx, 0)
}

// DownlinkCode returns the raw v2 selector of a task.
func (s *Solution) DownlinkCode(taskIdx int) float64 {
	return s.Encoding.At(taskIdx, 1)
}

// StripExtensionCode returns the raw v3 selector of a task.
func (s *Solution) StripExtensionCode(taskIdx int) float64 {
	return s.Encoding.At(taskIdx, 2)
}

// DecodeImagingOpportunity maps v1 onto a 1-indexed imaging opportunity:
// ceil(v1 * count). Index 0 (v1 = 0) means the task stays inactive.
func (s *Solution) DecodeImagingOpportunity(taskIdx, numOpportunities int) int {
	if numOpportunities <= 0 {
		return 0
	}
	return int(math.Ceil(s.Encoding.At(taskIdx, 0) * float64(numOpportunities)))
}

// DecodeDownlinkOpportunity maps v2 onto a 1-indexed downlink opportunity.
func (s *Solution) DecodeDownlinkOpportunity(taskIdx, numOpportunities int) int {
	if numOpportunities <= 0 {
		return 0
	}
	return int(math.Ceil(s.Encoding.At(taskIdx, 1) * float64(numOpportunities)))
}

// DecodeStripExtensionRate maps v3 onto [rMin, rMax]:
// rMax - v3 * (rMax - rMin).
func (s *Solution) DecodeStripExtensionRate(taskIdx int, rMax, rMin float64) float64 {
	return rMax - s.Encoding.At(taskIdx, 2)*(rMax-rMin)
}

// Fingerprint quantizes every cell to two decimals as an integer and hashes
// the sequence. The quantization keeps the tabu fingerprint independent of
// float formatting.
func (s *Solution) Fingerprint() uint64 {
	rows, cols := s.Encoding.Dims()
	quantized := make([]int64, 0, rows*cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			quantized = append(quantized, int64(math.Round(s.Encoding.At(i, j)*100)))
		}
	}
	return utils.HashInts(quantized)
}

package predictor

import (
	"github.com/sarchlab/vpsim/insts"
)

// Termination reasons.
const (
	ReasonLimitReached = "limit reached"
	ReasonFini         = "fini"
)

// Totals are summed instruction statistics.
type Totals struct {
	Instructions  uint64 `json:"instructions"`
	HitCount      uint64 `json:"hit_count"`
	PrevSeen      uint64 `json:"prev_seen"`
	PredSuccess   uint64 `json:"pred_success"`
	PredFailed    uint64 `json:"pred_failed"`
	MissedSuccess uint64 `json:"missed_success"`
}

// Add folds one record into t.
func (t *Totals) Add(r *InstructionRecord) {
	t.Instructions++
	t.HitCount += r.HitCount
	t.PrevSeen += r.PrevSeen
	t.PredSuccess += r.PredSuccess
	t.PredFailed += r.PredFailed
	t.MissedSuccess += r.MissedSuccess
}

// Accuracy returns the share of trusted predictions that were correct,
// as a percentage.
func (t Totals) Accuracy() float64 {
	predictions := t.PredSuccess + t.PredFailed
	if predictions == 0 {
		return 0
	}
	return float64(t.PredSuccess) / float64(predictions) * 100
}

// Coverage returns the share of observations that were correctly
// predicted, as a percentage.
func (t Totals) Coverage() float64 {
	if t.HitCount == 0 {
		return 0
	}
	return float64(t.PredSuccess) / float64(t.HitCount) * 100
}

// CategoryTotals are the totals of one instruction category.
type CategoryTotals struct {
	Category string `json:"category"`
	Totals
}

// TableSizing holds the resolved table constants of a run.
type TableSizing struct {
	VPTBits          uint   `json:"vpt_bits"`
	VPTSize          uint64 `json:"vpt_size"`
	CTBits           uint   `json:"ct_bits"`
	CTSize           uint64 `json:"ct_size"`
	CTCounterBits    uint   `json:"ct_counter_bits"`
	CTMax            uint32 `json:"ct_max"`
	PredictThreshold uint32 `json:"predict_threshold"`
	ReplaceThreshold uint32 `json:"replace_threshold"`
	HistoryDepth     int    `json:"history_depth"`
	InstructionLimit uint64 `json:"instruction_limit"`
}

// Report is the end-of-run summary of the value predictor.
type Report struct {
	Reason       string            `json:"reason"`
	LimitReached bool              `json:"limit_reached"`
	Observed     uint64            `json:"observed"`
	Tables       TableSizing       `json:"tables"`
	Total        Totals            `json:"total"`
	Categories   []CategoryTotals  `json:"categories"`
	VPT          ValueHistoryStats `json:"vpt"`
}

// Report folds the instruction records into per-category and grand totals.
// Categories without instructions are left out.
func (e *Engine) Report() Report {
	th := e.ct.Thresholds()
	report := Report{
		Reason:       ReasonFini,
		LimitReached: e.limitReached,
		Observed:     e.observed,
		Tables: TableSizing{
			VPTBits:          e.config.VPTBits,
			VPTSize:          e.vpt.Size(),
			CTBits:           e.config.CTBits,
			CTSize:           e.ct.Size(),
			CTCounterBits:    th.CounterBits,
			CTMax:            th.Max,
			PredictThreshold: th.Predict,
			ReplaceThreshold: th.Replace,
			HistoryDepth:     e.vpt.Depth(),
			InstructionLimit: e.config.InstructionLimit,
		},
		VPT: e.vpt.Stats(),
	}
	if e.limitReached {
		report.Reason = ReasonLimitReached
	}

	perCategory := make([]Totals, insts.NumCategories)
	for _, rec := range e.Records() {
		perCategory[rec.Category].Add(rec)
		report.Total.Add(rec)
	}

	for _, cat := range insts.Categories() {
		if perCategory[cat].Instructions == 0 {
			continue
		}
		report.Categories = append(report.Categories, CategoryTotals{
			Category: cat.String(),
			Totals:   perCategory[cat],
		})
	}

	return report
}

// BranchReport is the end-of-run summary of the branch predictor.
type BranchReport struct {
	Reason       string  `json:"reason"`
	LimitReached bool    `json:"limit_reached"`
	TableSize    uint64  `json:"table_size"`
	Seen         uint64  `json:"seen"`
	Taken        uint64  `json:"taken"`
	Correct      uint64  `json:"correct"`
	Replaced     uint64  `json:"replaced"`
	Accuracy     float64 `json:"accuracy"`
	LastBHR      uint8   `json:"last_bhr"`
}

// Report summarizes the branch predictor. limitReached records whether
// the run stopped on the branch limit.
func (bp *BranchPredictor) Report(limitReached bool) BranchReport {
	reason := ReasonFini
	if limitReached {
		reason = ReasonLimitReached
	}

	return BranchReport{
		Reason:       reason,
		LimitReached: limitReached,
		TableSize:    bp.size,
		Seen:         bp.stats.Seen,
		Taken:        bp.stats.Taken,
		Correct:      bp.stats.Correct,
		Replaced:     bp.stats.Replaced,
		Accuracy:     bp.stats.Accuracy(),
		LastBHR:      bp.bhr,
	}
}

package update

import (
	"fmt"

	"github.com/sandeepkv93/tasklog/internal/summary"
	"github.com/sandeepkv93/tasklog/internal/views"
)

// segmentColumns is the width of the shift timeline in cells.
const segmentColumns = 40

// shiftSummary recomputes the summary for the shown log from scratch.
func (m Model) shiftSummary() (summary.Summary, error) {
	shift, err := m.Settings.Shift()
	if err != nil {
		return summary.Summary{}, err
	}
	at := m.now()
	if m.Log.Date != m.today() {
		at = endOfDay(m.Log.Date, at)
	}
	return summary.Compute(m.Log.Tasks, shift, m.Settings.TargetSeconds(), at)
}

func (m Model) renderShiftView() string {
	sum, err := m.shiftSummary()
	if err != nil {
		return fmt.Sprintf("shift:\n%s", err)
	}
	segments := make([]views.SegmentData, 0, len(sum.Segments))
	for _, seg := range sum.Segments {
		segments = append(segments, views.SegmentData{
			Name:     seg.Name,
			Width:    int(seg.WidthPercent / 100 * segmentColumns),
			Billable: seg.Billable,
		})
	}
	target := ""
	if sum.TargetSeconds > 0 {
		target = summary.FormatHM(sum.TargetSeconds)
	}
	return views.RenderShiftPanel(views.ShiftPanelData{
		Shift:        fmt.Sprintf("%s-%s", m.Settings.WorkShiftStart, m.Settings.WorkShiftEnd),
		Logged:       summary.FormatHM(sum.TotalSeconds),
		LoggedBar:    m.loggedBar.ViewAs(clampPercent(sum.LoggedPercent)),
		LoggedPct:    sum.LoggedPercent,
		ShiftBar:     m.shiftBar.ViewAs(clampPercent(sum.ShiftPercent)),
		ShiftPct:     sum.ShiftPercent,
		Delta:        summary.FormatDelta(sum.DeltaSeconds),
		Ahead:        sum.Ahead(),
		Productivity: sum.ProductivityPercent,
		Billable:     summary.FormatHM(sum.BillableSeconds),
		NonBillable:  summary.FormatHM(sum.NonBillableSeconds),
		Target:       target,
		TargetPct:    sum.TargetPercent,
		Segments:     segments,
		TaskCount:    sum.TaskCount,
	})
}

// clampPercent turns an uncapped percentage into a progress bar fraction.
func clampPercent(pct float64) float64 {
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 1
	}
	return pct / 100
}

package reconcile

import (
	"slices"
	"strings"
)

// ExtractTimeline pulls the status-change events out of a raw bill
// record and sorts them ascending by source timestamp. The ISO
// timestamp strings compare correctly as strings; a missing timestamp
// sorts as the empty string, i.e. before everything, and ties keep the
// source array order so the result is deterministic for any input.
func ExtractTimeline(bill RawBill) []RawBillStatus {
	statuses := slices.Clone(bill.Draft.BillStatuses)
	slices.SortStableFunc(statuses, func(a, b RawBillStatus) int {
		return strings.Compare(a.TimeStamp, b.TimeStamp)
	})
	return statuses
}

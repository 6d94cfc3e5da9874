// Package export serializes planning results for the depot control room.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/kochimetro/induction/core/induction"
	"github.com/kochimetro/induction/core/slotting"
)

// WriteJSON writes any planning result to w in JSON format.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteScheduleCSV writes the departure board to w in CSV format.
func WriteScheduleCSV(w io.Writer, result *slotting.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"train_id", "departure_slot", "bay", "bay_position", "readiness", "needs_shunting", "priority_slot"}); err != nil {
		return err
	}
	for _, a := range result.Assignments {
		rec := []string{
			a.TrainID,
			strconv.Itoa(a.Slot),
			a.Track,
			strconv.Itoa(a.Position),
			strconv.FormatFloat(a.Readiness, 'f', 2, 64),
			strconv.FormatBool(a.NeedsShunting),
			strconv.FormatBool(a.PrioritySlot),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteRolesCSV writes the fleet partition to w in CSV format, one row per
// train with its assigned role.
func WriteRolesCSV(w io.Writer, result *induction.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"train_id", "role", "readiness"}); err != nil {
		return err
	}
	roles := result.Roles()
	for _, s := range result.Scores {
		rec := []string{
			s.TrainID,
			string(roles[s.TrainID]),
			strconv.FormatFloat(s.Value, 'f', 2, 64),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

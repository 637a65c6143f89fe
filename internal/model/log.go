package model

import "fmt"

// FlagCount is the number of japa rounds and stotra recitations tracked per day.
const FlagCount = 3

// Flags is a fixed-size sequence of checkbox values. Being an array it is
// copied on assignment, so a toggle never mutates a previous value.
type Flags [FlagCount]bool

// FlagsFrom builds Flags from a stored slice. Missing entries are false,
// extra entries are dropped, nil yields all false.
func FlagsFrom(values []bool) Flags {
	var f Flags
	copy(f[:], values)
	return f
}

// Slice returns the flags as a new slice, for drivers that want []bool.
func (f Flags) Slice() []bool {
	out := make([]bool, FlagCount)
	copy(out, f[:])
	return out
}

// Count returns how many flags are set.
func (f Flags) Count() int {
	n := 0
	for _, v := range f {
		if v {
			n++
		}
	}
	return n
}

// SadhanaLog is the practice record for a single calendar date.
// It is stored in the sadhna_logs table, one row per date.
type SadhanaLog struct {
	Date           Day   `json:"date"`
	Japa           Flags `json:"japa"`
	Stotra         Flags `json:"stotra"`
	ExerciseDone   bool  `json:"is_exercise_done"`
	AteJunkFood    bool  `json:"is_ate_junkfood"`
	AteAfterSunset bool  `json:"is_ate_after_sunset"`
}

// Draft returns the editable part of the log.
func (l SadhanaLog) Draft() Draft {
	return Draft{
		Japa:           l.Japa,
		Stotra:         l.Stotra,
		ExerciseDone:   l.ExerciseDone,
		AteJunkFood:    l.AteJunkFood,
		AteAfterSunset: l.AteAfterSunset,
	}
}

// Draft holds the unsaved form values for the selected date. The zero value
// is the all-false default used for dates that have no record yet.
type Draft struct {
	Japa           Flags
	Stotra         Flags
	ExerciseDone   bool
	AteJunkFood    bool
	AteAfterSunset bool
}

// For attaches a date to the draft, producing the record to persist.
func (d Draft) For(day Day) SadhanaLog {
	return SadhanaLog{
		Date:           day,
		Japa:           d.Japa,
		Stotra:         d.Stotra,
		ExerciseDone:   d.ExerciseDone,
		AteJunkFood:    d.AteJunkFood,
		AteAfterSunset: d.AteAfterSunset,
	}
}

// Value reads a single field. Invalid fields read as false.
func (d Draft) Value(f Field) bool {
	switch f.Kind {
	case FieldJapa:
		if f.validIndex() {
			return d.Japa[f.Index]
		}
	case FieldStotra:
		if f.validIndex() {
			return d.Stotra[f.Index]
		}
	case FieldExercise:
		return d.ExerciseDone
	case FieldJunkFood:
		return d.AteJunkFood
	case FieldAfterSunset:
		return d.AteAfterSunset
	}
	return false
}

// With returns a copy of the draft with exactly one field changed.
// An invalid field returns the draft unchanged.
func (d Draft) With(f Field, v bool) Draft {
	switch f.Kind {
	case FieldJapa:
		if f.validIndex() {
			d.Japa[f.Index] = v
		}
	case FieldStotra:
		if f.validIndex() {
			d.Stotra[f.Index] = v
		}
	case FieldExercise:
		d.ExerciseDone = v
	case FieldJunkFood:
		d.AteJunkFood = v
	case FieldAfterSunset:
		d.AteAfterSunset = v
	}
	return d
}

// FieldKind names a column of the log.
type FieldKind int

const (
	FieldJapa FieldKind = iota
	FieldStotra
	FieldExercise
	FieldJunkFood
	FieldAfterSunset
)

// Field addresses one checkbox: a slot of japa/stotra, or a scalar flag.
type Field struct {
	Kind  FieldKind
	Index int
}

// JapaField addresses japa round i (0-based).
func JapaField(i int) Field { return Field{Kind: FieldJapa, Index: i} }

// StotraField addresses stotra recitation i (0-based).
func StotraField(i int) Field { return Field{Kind: FieldStotra, Index: i} }

var (
	ExerciseField    = Field{Kind: FieldExercise}
	JunkFoodField    = Field{Kind: FieldJunkFood}
	AfterSunsetField = Field{Kind: FieldAfterSunset}
)

func (f Field) validIndex() bool {
	return f.Index >= 0 && f.Index < FlagCount
}

// Valid reports whether the field addresses an existing checkbox.
func (f Field) Valid() bool {
	switch f.Kind {
	case FieldJapa, FieldStotra:
		return f.validIndex()
	case FieldExercise, FieldJunkFood, FieldAfterSunset:
		return f.Index == 0
	}
	return false
}

// String returns the column path, e.g. "japa[1]" or "is_exercise_done".
func (f Field) String() string {
	switch f.Kind {
	case FieldJapa:
		return fmt.Sprintf("japa[%d]", f.Index)
	case FieldStotra:
		return fmt.Sprintf("stotra[%d]", f.Index)
	case FieldExercise:
		return "is_exercise_done"
	case FieldJunkFood:
		return "is_ate_junkfood"
	case FieldAfterSunset:
		return "is_ate_after_sunset"
	}
	return fmt.Sprintf("field(%d,%d)", f.Kind, f.Index)
}

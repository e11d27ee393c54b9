package form

import (
	"math"
	"strconv"
	"strings"
)

// Inputs holds the continuous measurements exactly as typed. They are only
// converted to numbers by Record.Features.
type Inputs struct {
	Age          string `json:"age"`
	RestingBP    string `json:"rbp"`
	Cholesterol  string `json:"SC"`
	MaxHeartRate string `json:"MHR"`
	STDepression string `json:"STDep"`
}

// Choices holds the categorical values. The zero value is the form default.
type Choices struct {
	Gender         int `json:"gender"`
	ChestPain      int `json:"cpt"`
	FastingSugar   int `json:"FBS"`
	RestingECG     int `json:"RECG"`
	ExerciseAngina int `json:"EIA"`
	STSlope        int `json:"PEST"`
	Vessels        int `json:"VesFlo"`
	Thal           int `json:"Thal"`
}

// Record is the full form. It serializes to the flat object shape
// {"age":"62","gender":0,...}.
type Record struct {
	Inputs
	Choices
}

// Features is the numeric vector in Order.
type Features [FeatureCount]float64

// Slice returns the vector as a slice, ready for JSON encoding.
func (f Features) Slice() []float64 {
	out := make([]float64, FeatureCount)
	copy(out, f[:])
	return out
}

func (r *Record) text(f Field) *string {
	switch f {
	case FieldAge:
		return &r.Age
	case FieldRestingBP:
		return &r.RestingBP
	case FieldCholesterol:
		return &r.Cholesterol
	case FieldMaxHeartRate:
		return &r.MaxHeartRate
	case FieldSTDepression:
		return &r.STDepression
	}
	return nil
}

func (r *Record) choice(f Field) *int {
	switch f {
	case FieldGender:
		return &r.Gender
	case FieldChestPain:
		return &r.ChestPain
	case FieldFastingSugar:
		return &r.FastingSugar
	case FieldRestingECG:
		return &r.RestingECG
	case FieldExerciseAngina:
		return &r.ExerciseAngina
	case FieldSTSlope:
		return &r.STSlope
	case FieldVessels:
		return &r.Vessels
	case FieldThal:
		return &r.Thal
	}
	return nil
}

// Text returns the raw input of a continuous field, "" for any other field.
func (r Record) Text(f Field) string {
	if p := r.text(f); p != nil {
		return *p
	}
	return ""
}

// Choice returns the value of a categorical field, 0 for any other field.
func (r Record) Choice(f Field) int {
	if p := r.choice(f); p != nil {
		return *p
	}
	return 0
}

// Value returns the display value of any field.
func (r Record) Value(f Field) string {
	if f.IsContinuous() {
		return r.Text(f)
	}
	return strconv.Itoa(r.Choice(f))
}

// Missing returns the required-field errors of r. Only the continuous fields
// are checked, and only for emptiness.
func (r Record) Missing() ValidationErrors {
	errs := make(ValidationErrors)
	for _, f := range Continuous {
		if r.Text(f) == "" {
			errs[f] = MsgRequired
		}
	}
	return errs
}

// Features converts r into the fixed-order vector. A continuous field that
// does not parse to a finite number is reported instead of being sent.
func (r Record) Features() (Features, ValidationErrors) {
	var out Features
	errs := make(ValidationErrors)
	for i, f := range Order {
		if !f.IsContinuous() {
			out[i] = float64(r.Choice(f))
			continue
		}
		v, ok := parseNumber(r.Text(f))
		if !ok {
			errs[f] = MsgInvalidNumber
			continue
		}
		out[i] = v
	}
	return out, errs
}

func parseNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Check reports the categorical values of r that fall outside their
// enumeration.
func (r Record) Check() ValidationErrors {
	errs := make(ValidationErrors)
	for _, f := range Categorical {
		if !f.allows(r.Choice(f)) {
			errs[f] = ErrUnknownOption.Error()
		}
	}
	return errs
}

// Package form holds the state of the prediction form: the raw text entered
// for the continuous measurements, the selected categorical options, and the
// validation run on submit.
package form

import "fmt"

// Field names one of the thirteen form inputs. The string value is the name
// used by the HTML form and the JSON API.
type Field string

// Form fields.
const (
	FieldAge            Field = "age"
	FieldGender         Field = "gender"
	FieldChestPain      Field = "cpt"
	FieldRestingBP      Field = "rbp"
	FieldCholesterol    Field = "SC"
	FieldFastingSugar   Field = "FBS"
	FieldRestingECG     Field = "RECG"
	FieldMaxHeartRate   Field = "MHR"
	FieldExerciseAngina Field = "EIA"
	FieldSTDepression   Field = "STDep"
	FieldSTSlope        Field = "PEST"
	FieldVessels        Field = "VesFlo"
	FieldThal           Field = "Thal"
)

// FeatureCount is the length of the vector sent to the prediction endpoint.
const FeatureCount = 13

// Order is the fixed position of every field in the feature vector.
var Order = [FeatureCount]Field{
	FieldAge,
	FieldGender,
	FieldChestPain,
	FieldRestingBP,
	FieldCholesterol,
	FieldFastingSugar,
	FieldRestingECG,
	FieldMaxHeartRate,
	FieldExerciseAngina,
	FieldSTDepression,
	FieldSTSlope,
	FieldVessels,
	FieldThal,
}

// Continuous lists the free-text numeric fields, in display order.
var Continuous = []Field{
	FieldAge,
	FieldRestingBP,
	FieldCholesterol,
	FieldMaxHeartRate,
	FieldSTDepression,
}

// Categorical lists the fields constrained to a fixed enumeration.
var Categorical = []Field{
	FieldGender,
	FieldChestPain,
	FieldFastingSugar,
	FieldRestingECG,
	FieldExerciseAngina,
	FieldSTSlope,
	FieldVessels,
	FieldThal,
}

// Option is one selectable value of a categorical field.
type Option struct {
	Value int    `json:"value"`
	Label string `json:"label"`
}

type meta struct {
	label   string
	hint    string
	options []Option
}

var fields = map[Field]meta{
	FieldAge:          {label: "Age", hint: "Enter your age"},
	FieldRestingBP:    {label: "Resting Blood Pressure", hint: "Enter your resting blood pressure"},
	FieldCholesterol:  {label: "Serum Cholesterol", hint: "Enter your serum cholesterol"},
	FieldMaxHeartRate: {label: "Max Heart Rate Achieved", hint: "Enter maximum heart rate achieved"},
	FieldSTDepression: {label: "ST Depression Induced by Exercise", hint: "Enter ST depression induced by exercise relative to rest"},
	FieldGender: {label: "Gender", hint: "Select your gender", options: []Option{
		{0, "Female"}, {1, "Male"},
	}},
	FieldChestPain: {label: "Chest Pain Type", hint: "Select the type of chest pain", options: []Option{
		{0, "Typical Angina"}, {1, "Atypical Angina"}, {2, "Non-Anginal Pain"}, {3, "Asymptomatic"},
	}},
	FieldFastingSugar: {label: "Fasting Blood Sugar higher than 120mg/dl?", hint: "Is fasting blood sugar greater than 120mg/dl?", options: []Option{
		{0, "No"}, {1, "Yes"},
	}},
	FieldRestingECG: {label: "Resting ECG", hint: "Select your Resting ECG result", options: []Option{
		{0, "Normal"}, {1, "Having ST-T wave Abnormality"}, {2, "Left Ventricular Hypertrophy"},
	}},
	FieldExerciseAngina: {label: "Exercise Induced Angina", hint: "Do you have exercise-induced angina?", options: []Option{
		{0, "No"}, {1, "Yes"},
	}},
	FieldSTSlope: {label: "Peak Exercise ST Slope", hint: "Select the slope of peak exercise ST segment", options: []Option{
		{0, "Upsloping"}, {1, "Flat"}, {2, "Downsloping"},
	}},
	FieldVessels: {label: "Number of Major Vessels Colored by Fluoroscopy", hint: "Select the number of major vessels colored by fluoroscopy", options: []Option{
		{0, "0"}, {1, "1"}, {2, "2"}, {3, "3"},
	}},
	FieldThal: {label: "Thalassemia", hint: "Select your Thalassemia status", options: []Option{
		{0, "1"}, {1, "2"}, {2, "3"}, {3, "4"}, {4, "5"}, {5, "6"},
	}},
}

// ParseField resolves a field by its wire name.
func ParseField(name string) (Field, error) {
	f := Field(name)
	if _, ok := fields[f]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return f, nil
}

// IsContinuous reports whether f is entered as free text.
func (f Field) IsContinuous() bool {
	m, ok := fields[f]
	return ok && m.options == nil
}

// IsCategorical reports whether f is chosen from a fixed enumeration.
func (f Field) IsCategorical() bool {
	m, ok := fields[f]
	return ok && m.options != nil
}

// Label returns the human-readable name of f.
func (f Field) Label() string { return fields[f].label }

// Hint returns the tooltip text of f.
func (f Field) Hint() string { return fields[f].hint }

// Options returns the allowed values of a categorical field, nil otherwise.
func (f Field) Options() []Option {
	opts := fields[f].options
	if opts == nil {
		return nil
	}
	out := make([]Option, len(opts))
	copy(out, opts)
	return out
}

func (f Field) allows(v int) bool {
	for _, o := range fields[f].options {
		if o.Value == v {
			return true
		}
	}
	return false
}

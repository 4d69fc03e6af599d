package health

// Sex as reported in the profile questionnaire.
type Sex string

const (
	SexFemale Sex = "female"
	SexMale   Sex = "male"
	SexOther  Sex = "other"
)

// Profile holds the demographic attributes impact scoring reads. Owned by the
// manual store; read-only everywhere else.
type Profile struct {
	Age      int     `json:"age"`
	Sex      Sex     `json:"sex"`
	HeightCm float64 `json:"height_cm"`
	WeightKg float64 `json:"weight_kg"`
}

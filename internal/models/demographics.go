// ABOUTME: Demographics model used for the scoring context multiplier.
// ABOUTME: BMI is taken directly or derived from height and weight.
package models

// Demographics holds the optional context inputs for one user.
type Demographics struct {
	UserID   string   `json:"user_id" yaml:"user_id"`
	Age      *float64 `json:"age,omitempty" yaml:"age,omitempty"`
	BMI      *float64 `json:"bmi,omitempty" yaml:"bmi,omitempty"`
	HeightCm *float64 `json:"height_cm,omitempty" yaml:"height_cm,omitempty"`
	WeightKg *float64 `json:"weight_kg,omitempty" yaml:"weight_kg,omitempty"`
}

// EffectiveBMI returns the direct BMI, or one derived from height and weight.
func (d *Demographics) EffectiveBMI() *float64 {
	if d == nil {
		return nil
	}
	if d.BMI != nil {
		return d.BMI
	}
	if d.HeightCm == nil || d.WeightKg == nil || *d.HeightCm <= 0 {
		return nil
	}
	m := *d.HeightCm / 100
	bmi := *d.WeightKg / (m * m)
	return &bmi
}

// HasContext reports whether age or BMI is available.
func (d *Demographics) HasContext() bool {
	if d == nil {
		return false
	}
	return d.Age != nil || d.EffectiveBMI() != nil
}

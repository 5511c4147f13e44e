package tdee

import "github.com/xSteins/PencatatanKalori-sub000/internal"

// ForProfile computes the daily target from the profile's current metrics and
// its own granularity offset.
func ForProfile(p *internal.UserProfile) int {
	return CalculateDailyCalories(p.WeightKg, p.HeightCm, p.Age, p.Sex.IsMale(), p.ActivityLevel.Multiplier(), p.GranularityOffset)
}

// Breakdown shows each step of the target calculation.
type Breakdown struct {
	RMR        float64 `json:"rmr"`
	Multiplier float64 `json:"multiplier"`
	Offset     int     `json:"granularity_offset"`
	Target     int     `json:"daily_calorie_target"`
}

func Explain(weightKg, heightCm float64, age int, sex internal.Sex, level internal.ActivityLevel, offset int) Breakdown {
	rmr := CalculateRMR(weightKg, heightCm, age, sex.IsMale())
	return Breakdown{
		RMR:        rmr,
		Multiplier: level.Multiplier(),
		Offset:     offset,
		Target:     int(CalculateDailyCaloriesTarget(rmr, level.Multiplier(), offset)),
	}
}

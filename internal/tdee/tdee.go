// Package tdee computes resting metabolic rate and the daily calorie target.
package tdee

const (
	maleConstant   = 5
	femaleConstant = -161
)

// CalculateRMR returns the Mifflin-St Jeor resting metabolic rate in kcal.
// Inputs are not range checked.
func CalculateRMR(weightKg, heightCm float64, ageYears int, isMale bool) float64 {
	rmr := 10*weightKg + 6.25*heightCm - 5*float64(ageYears)
	if isMale {
		return rmr + maleConstant
	}
	return rmr + femaleConstant
}

// CalculateDailyCaloriesTarget layers the signed granularity offset on top of
// the activity-scaled RMR. The offset is applied the same way for every goal.
func CalculateDailyCaloriesTarget(rmr, activityMultiplier float64, granularityOffset int) float64 {
	return rmr*activityMultiplier + float64(granularityOffset)
}

// CalculateDailyCalories composes the two steps and truncates toward zero.
func CalculateDailyCalories(weightKg, heightCm float64, ageYears int, isMale bool, activityMultiplier float64, granularityOffset int) int {
	rmr := CalculateRMR(weightKg, heightCm, ageYears, isMale)
	return int(CalculateDailyCaloriesTarget(rmr, activityMultiplier, granularityOffset))
}

package scoring

var recommendations = map[Status][]string{
	StatusExcellent: {
		"Your health metrics are excellent! Keep up the good work.",
		"Continue your current lifestyle and health habits.",
		"Schedule regular check-ups to maintain your health.",
	},
	StatusGood: {
		"Your overall health is good, but there's room for improvement.",
		"Focus on areas with lower scores to optimize your health.",
		"Consider consulting a healthcare provider for personalized advice.",
	},
	StatusFair: {
		"Your health needs attention in several areas.",
		"Increase physical activity to at least 3 hours per week.",
		"Aim for 7-9 hours of sleep each night.",
		"Consider stress management techniques like meditation or yoga.",
		"Consult with a healthcare provider for a comprehensive health plan.",
	},
	StatusNeedsImprovement: {
		"Your health requires immediate attention.",
		"Please consult with a healthcare provider as soon as possible.",
		"Start with small lifestyle changes: more exercise, better sleep, healthier diet.",
		"Monitor your blood pressure and heart rate regularly.",
		"Consider joining support groups or health programs.",
	},
}

// Recommendations returns a copy of the advice list for status, or nil for
// an unknown status. Callers may modify the returned slice.
func Recommendations(status Status) []string {
	recs, ok := recommendations[status]
	if !ok {
		return nil
	}
	out := make([]string, len(recs))
	copy(out, recs)
	return out
}

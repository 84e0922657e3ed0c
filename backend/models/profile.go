package models

// Enumerated profile values collected during onboarding. Handlers validate
// submitted selections against these sets.

var EducationLevels = []string{
	"High School",
	"Undergraduate",
	"Graduate",
	"Professional",
}

var KnowledgeLevels = []string{
	"Beginner",
	"Intermediate",
	"Advanced",
}

var InterestTags = []string{
	"Genetics",
	"CRISPR",
	"Molecular Biology",
	"Bioinformatics",
	"Immunology",
	"Synthetic Biology",
	"Microbiology",
	"Biochemistry",
}

func ValidEducationLevel(v string) bool {
	return contains(EducationLevels, v)
}

func ValidKnowledgeLevel(v string) bool {
	return contains(KnowledgeLevels, v)
}

func ValidInterests(tags []string) bool {
	if len(tags) == 0 {
		return false
	}
	for _, t := range tags {
		if !contains(InterestTags, t) {
			return false
		}
	}
	return true
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

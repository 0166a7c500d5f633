package engine

import "sort"

type AchievementID string

const (
	AchievementFirstStep         AchievementID = "FIRST_STEP"
	AchievementSummarizerNovice  AchievementID = "SUMMARIZER_NOVICE"
	AchievementQuizMaster        AchievementID = "QUIZ_MASTER"
	AchievementKnowledgeSeeker   AchievementID = "KNOWLEDGE_SEEKER"
	AchievementPlannerPro        AchievementID = "PLANNER_PRO"
	AchievementAcademicIntegrity AchievementID = "ACADEMIC_INTEGRITY"
	AchievementPDFExplorer       AchievementID = "PDF_EXPLORER"
	AchievementDocExplorer       AchievementID = "DOC_EXPLORER"
	AchievementBibliophile       AchievementID = "BIBLIOPHILE"
	AchievementResourceExplorer  AchievementID = "RESOURCE_EXPLORER"
)

// Achievement represents a badge the player can unlock.
type Achievement struct {
	ID          AchievementID `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Unlocked    bool          `json:"unlocked"`
}

type achievementDef struct {
	ID          AchievementID
	Name        string
	Description string
	Icon        string
	Earned      func(usage map[string]int) bool
}

func usedAtLeast(toolID string, n int) func(map[string]int) bool {
	return func(usage map[string]int) bool { return usage[toolID] >= n }
}

func distinctToolsAtLeast(n int) func(map[string]int) bool {
	return func(usage map[string]int) bool {
		distinct := 0
		for _, c := range usage {
			if c > 0 {
				distinct++
			}
		}
		return distinct >= n
	}
}

func builtinAchievements() []achievementDef {
	return []achievementDef{
		{AchievementFirstStep, "First Step", "Use your first AI tool.", "🌱", distinctToolsAtLeast(1)},
		{AchievementSummarizerNovice, "Summary Apprentice", "Use the summarizer 5 times.", "📝", usedAtLeast("summarizer", 5)},
		{AchievementQuizMaster, "Quiz Master", "Create 3 quizzes.", "🏅", func(u map[string]int) bool {
			return u["test"]+u["reviewQuiz"] >= 3
		}},
		{AchievementKnowledgeSeeker, "Knowledge Seeker", "Use 5 different tools.", "🧭", distinctToolsAtLeast(5)},
		{AchievementPlannerPro, "Planning Pro", "Organize 10 study tasks.", "🗓️", usedAtLeast("organizer", 10)},
		{AchievementAcademicIntegrity, "Academic Integrity", "Check 3 documents with the plagiarism detector.", "🛡️", usedAtLeast("plagiarism", 3)},
		{AchievementPDFExplorer, "PDF Explorer", "Chat with your first PDF document.", "📄", usedAtLeast("pdfReader", 1)},
		{AchievementDocExplorer, "Document Explorer", "Chat with your first .docx or .txt document.", "📃", usedAtLeast("documentReader", 1)},
		{AchievementBibliophile, "Bibliophile", "Find references for 3 research topics.", "📚", usedAtLeast("references", 3)},
		{AchievementResourceExplorer, "Library Explorer", "Open 3 different library resources.", "🏛️", usedAtLeast("resourceLibrary", 3)},
	}
}

// AchievementIcon returns the badge icon for id, or an empty string.
func AchievementIcon(id AchievementID) string {
	for _, d := range builtinAchievements() {
		if d.ID == id {
			return d.Icon
		}
	}
	return ""
}

func defaultAchievements() map[AchievementID]Achievement {
	out := make(map[AchievementID]Achievement, len(builtinAchievements()))
	for _, d := range builtinAchievements() {
		out[d.ID] = Achievement{ID: d.ID, Name: d.Name, Description: d.Description}
	}
	return out
}

// EvaluateAchievements returns a copy of s with every newly earned achievement unlocked,
// plus the ids unlocked by this call. Unlocked achievements are never re-locked, and
// catalog entries missing from s are added.
func EvaluateAchievements(s State) (State, []AchievementID) {
	out := s.Clone()
	var unlocked []AchievementID
	for _, d := range builtinAchievements() {
		a, ok := out.Achievements[d.ID]
		if !ok {
			a = Achievement{ID: d.ID, Name: d.Name, Description: d.Description}
		}
		if !a.Unlocked && d.Earned(out.ToolUsage) {
			a.Unlocked = true
			unlocked = append(unlocked, d.ID)
		}
		out.Achievements[d.ID] = a
	}
	return out, unlocked
}

// SortedAchievements lists achievements in catalog order.
func SortedAchievements(s State) []Achievement {
	order := map[AchievementID]int{}
	for i, d := range builtinAchievements() {
		order[d.ID] = i
	}
	list := make([]Achievement, 0, len(s.Achievements))
	for _, a := range s.Achievements {
		list = append(list, a)
	}
	sort.Slice(list, func(i, j int) bool {
		oi, iok := order[list[i].ID]
		oj, jok := order[list[j].ID]
		if iok != jok {
			return iok
		}
		if oi != oj {
			return oi < oj
		}
		return list[i].ID < list[j].ID
	})
	return list
}

// CountUnlocked returns how many achievements in s are unlocked.
func CountUnlocked(s State) int {
	n := 0
	for _, a := range s.Achievements {
		if a.Unlocked {
			n++
		}
	}
	return n
}

package tools

import (
	"fmt"

	"google.golang.org/genai"
)

func str(desc string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeString, Description: desc}
}

func integer(desc string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeInteger, Description: desc}
}

func enum(desc string, values ...string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeString, Description: desc, Enum: values}
}

func arrayOf(desc string, items *genai.Schema) *genai.Schema {
	return &genai.Schema{Type: genai.TypeArray, Description: desc, Items: items}
}

func object(props map[string]*genai.Schema, required ...string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeObject, Properties: props, Required: required}
}

func slidesSchema(people int) *genai.Schema {
	return arrayOf("", object(map[string]*genai.Schema{
		"title":            str("Slide title."),
		"content":          str("Main paragraph of the slide."),
		"presenter":        integer(fmt.Sprintf("Number of the assigned presenter, from 1 to %d.", people)),
		"visualSuggestion": str("A concrete idea for an image or visual the student can find or create."),
	}, "title", "content", "presenter", "visualSuggestion"))
}

func quizSchema() *genai.Schema {
	return arrayOf("", object(map[string]*genai.Schema{
		"question": str(""),
		"options": object(map[string]*genai.Schema{
			"A": str(""), "B": str(""), "C": str(""), "D": str(""),
		}, "A", "B", "C", "D"),
		"correctAnswer": enum("", "A", "B", "C", "D"),
	}, "question", "options", "correctAnswer"))
}

func projectPlanSchema() *genai.Schema {
	return object(map[string]*genai.Schema{
		"title":              str("An academic title for the project."),
		"mainObjective":      str("The single main research objective."),
		"specificObjectives": arrayOf("Three or four specific, measurable objectives.", str("")),
		"hypothesis":         str("A clear, testable hypothesis or research question."),
		"justification":      str("Why this research matters."),
		"chapterOutline": arrayOf("A logical outline of chapters or sections.", object(map[string]*genai.Schema{
			"chapter":     integer(""),
			"title":       str(""),
			"description": str("What the chapter covers."),
		}, "chapter", "title", "description")),
		"methodology": str("A short suggested research methodology."),
	}, "title", "mainObjective", "specificObjectives", "hypothesis", "justification", "chapterOutline", "methodology")
}

func calculationSchema() *genai.Schema {
	return object(map[string]*genai.Schema{
		"result":      str("The final numeric or symbolic result."),
		"explanation": str("A step-by-step explanation in markdown."),
	}, "result", "explanation")
}

func reviewScheduleSchema(today string) *genai.Schema {
	return arrayOf("", object(map[string]*genai.Schema{
		"note":       str("A short review question or task."),
		"reviewDate": str("Review date in YYYY-MM-DD format. Today is " + today + "."),
	}, "note", "reviewDate"))
}

func plagiarismSchema() *genai.Schema {
	return object(map[string]*genai.Schema{
		"originalityScore": integer("Estimated originality from 0 to 100."),
		"summary":          str("Overall findings with strengths and areas to improve."),
		"suggestions": arrayOf("Specific improvement suggestions.", object(map[string]*genai.Schema{
			"originalText": str("The fragment to change."),
			"suggestion":   str("The rewritten fragment."),
			"explanation":  str("Why the rewrite is better."),
		}, "originalText", "suggestion", "explanation")),
	}, "originalityScore", "summary", "suggestions")
}

func referencesSchema() *genai.Schema {
	return arrayOf("", object(map[string]*genai.Schema{
		"title":   str(""),
		"author":  str("Main author or authors."),
		"year":    integer(""),
		"source":  str("Journal, publisher or conference."),
		"summary": str("Why this source is relevant."),
		"url":     str("A direct link, if known."),
	}, "title", "author", "year", "source", "summary"))
}

var infographicIcons = []string{"brain", "book", "flask", "flag", "person", "gear", "lightbulb", "calendar", "atom", "code"}

func infographicSchema() *genai.Schema {
	return object(map[string]*genai.Schema{
		"title": str("An overall title for the visual."),
		"timelineEvents": arrayOf("Timeline events; only for a timeline.", object(map[string]*genai.Schema{
			"date":        str("Date or period, such as '1945' or 'c. 300 BC'."),
			"title":       str(""),
			"description": str(""),
		}, "date", "title", "description")),
		"infographicSections": arrayOf("Infographic sections; only for an infographic.", object(map[string]*genai.Schema{
			"icon":    enum("An icon name from the list.", infographicIcons...),
			"title":   str(""),
			"content": str(""),
		}, "icon", "title", "content")),
	}, "title")
}

func diagramSchema(diagramType string) *genai.Schema {
	return object(map[string]*genai.Schema{
		"diagramCode": str("Complete raw Mermaid.js code starting with '" + diagramType + "', with no markdown fences. Use <br/> for line breaks inside nodes."),
	}, "diagramCode")
}

func countrySchema() *genai.Schema {
	return object(map[string]*genai.Schema{
		"summary":    str("Two or three engaging sentences about the country."),
		"flagEmoji":  str("The country's flag emoji."),
		"capital":    str(""),
		"population": str("Approximate population with the year of the estimate."),
		"continent":  str(""),
		"history":    str("The country's history with three or four key events, 100 to 150 words."),
		"geography": object(map[string]*genai.Schema{
			"location":     str("Location and neighbouring countries."),
			"climate":      str(""),
			"mainFeatures": arrayOf("Three or four notable geographic features.", str("")),
		}, "location", "climate", "mainFeatures"),
		"culture": object(map[string]*genai.Schema{
			"languages":  arrayOf("Official and main languages.", str("")),
			"cuisine":    str("Typical food, naming one or two dishes."),
			"traditions": str("One important tradition or festival."),
		}, "languages", "cuisine", "traditions"),
		"economy": object(map[string]*genai.Schema{
			"gdp":            str("Approximate nominal GDP with the year."),
			"mainIndustries": arrayOf("Three or four main industries.", str("")),
			"currency":       str("Currency name and code."),
		}, "gdp", "mainIndustries", "currency"),
		"politics": object(map[string]*genai.Schema{
			"governmentType": str(""),
			"headOfState":    str("Name and title of the current head of state or government."),
		}, "governmentType", "headOfState"),
	}, "summary", "flagEmoji", "capital", "population", "continent", "history", "geography", "culture", "economy", "politics")
}

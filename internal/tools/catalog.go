package tools

import (
	"fmt"
	"strings"

	"google.golang.org/genai"

	"lumen/internal/ai"
	"lumen/internal/reminders"
)

// Tool ids. They double as the usage keys the gamification engine counts.
const (
	IDAssistant       = "assistant"
	IDSummarizer      = "summarizer"
	IDExplainer       = "explainer"
	IDCorrector       = "corrector"
	IDPresentation    = "presentation"
	IDTest            = "test"
	IDTranslator      = "translator"
	IDPlanner         = "planner"
	IDCalculator      = "calculator"
	IDReminders       = "reminders"
	IDPlagiarism      = "plagiarism"
	IDReferences      = "references"
	IDInfographics    = "infographics"
	IDDiagram         = "diagram"
	IDMapCreator      = "mapCreator"
	IDCountryExplorer = "countryExplorer"
	IDReviewQuiz      = "reviewQuiz"
	IDPDFReader       = "pdfReader"
	IDDocumentReader  = "documentReader"
	IDChat            = "chat"
)

// Usage ids for features that award XP without calling the model.
const (
	IDOrganizer       = "organizer"
	IDResourceLibrary = "resourceLibrary"
)

// Rewards for the non-model features and the chat.
const (
	ChatReward            = 2
	OrganizerReward       = 5
	ResourceLibraryReward = 5
)

// firstUseBonus rewards the first successful run richly and later runs lightly.
func firstUseBonus(first, later int) func(Input, int) int {
	return func(_ Input, prior int) int {
		if prior == 0 {
			return first
		}
		return later
	}
}

var imageTypes = []string{"image/png", "image/jpeg", "image/webp", "image/heic", "image/heif"}

var catalog = []Tool{
	{
		ID:          IDAssistant,
		Name:        "Homework Assistant",
		Description: "Step-by-step guidance on a problem, from text or a photo.",
		Kind:        KindText,
		Reward:      10,
		RewardFor: func(in Input, _ int) int {
			if in.Attachment != nil {
				return 15
			}
			return 10
		},
		Fields: []Field{{Name: "problem", Label: "Problem"}},
		Check: func(in Input) error {
			if in.Get("problem") == "" && in.Attachment == nil {
				return ValidationError{Field: "problem", Reason: "or an image is required"}
			}
			if in.Attachment != nil && !acceptsMIME(imageTypes, in.Attachment.MIMEType) {
				return ValidationError{Field: "file", Reason: "must be an image"}
			}
			return nil
		},
		run: textRun(func(in Input, e env) ai.Request {
			problem := in.Get("problem")
			if problem == "" {
				problem = "Please analyse the image I uploaded."
			}
			req := ai.Request{
				System: fmt.Sprintf("You are an expert AI tutor for a %s student. If there is an image, first transcribe the problem in it. Do not hand over the answer: guide the student toward it with step-by-step explanations, hints and structured reasoning. Match the complexity to the student's level. Format the answer in markdown.", e.level),
				Prompt: fmt.Sprintf("My problem is: %s. Help me understand how to solve it. If the text is empty, focus on the image. If the image does not look like schoolwork, say so kindly.", problem),
			}
			if in.Attachment != nil {
				req.Attachments = []ai.Attachment{*in.Attachment}
			}
			return req
		}),
	},
	{
		ID:          IDSummarizer,
		Name:        "Summarizer",
		Description: "A concise summary of a text, pitched at your level.",
		Kind:        KindText,
		Reward:      10,
		Fields:      []Field{{Name: "text", Label: "Text", Required: true}},
		run: textRun(func(in Input, e env) ai.Request {
			return ai.Request{
				System: fmt.Sprintf("You are an expert academic summarizer. Produce a coherent, concise summary whose depth and vocabulary suit a %s student. Highlight the key concepts, main arguments and important conclusions.", e.level),
				Prompt: fmt.Sprintf("Summarize this text for a %s student:\n\n%s", e.level, in.Get("text")),
			}
		}),
	},
	{
		ID:          IDExplainer,
		Name:        "Concept Explainer",
		Description: "Explains a concept with analogies and examples for your level.",
		Kind:        KindText,
		Reward:      10,
		Fields:      []Field{{Name: "concept", Label: "Concept", Required: true}},
		run: textRun(func(in Input, e env) ai.Request {
			return ai.Request{
				System: fmt.Sprintf("You are an educator who makes complex topics simple. Explain the concept for a %s student. For secondary and high school use clear analogies and everyday examples. For university and vocational students add related concepts and correct terminology. For postgraduates give depth, context in the field and current debates.", e.level),
				Prompt: fmt.Sprintf("Explain the concept of %q for a %s student.", in.Get("concept"), e.level),
			}
		}),
	},
	{
		ID:          IDCorrector,
		Name:        "Essay Corrector",
		Description: "Fixes grammar and style and explains the key changes.",
		Kind:        KindText,
		Reward:      15,
		Fields:      []Field{{Name: "essay", Label: "Essay", Required: true}},
		run: textRun(func(in Input, e env) ai.Request {
			return ai.Request{
				System: fmt.Sprintf("You are a writing assistant and copy editor for a %s student. Correct grammar, spelling and punctuation, and suggest improvements to style, clarity and flow suited to the student's level. Do not change the meaning or the student's voice. Answer with (1) the corrected text and (2) a bulleted list of the key suggestions and why they were made.", e.level),
				Prompt: fmt.Sprintf("Please correct and improve this essay for a %s student:\n\n%s", e.level, in.Get("essay")),
			}
		}),
	},
	{
		ID:          IDPresentation,
		Name:        "Presentation Generator",
		Description: "Slide content split fairly between presenters.",
		Kind:        KindJSON,
		Reward:      20,
		Fields: []Field{
			{Name: "topic", Label: "Topic", Required: true},
			{Name: "people", Label: "Presenters", Default: "3", Numeric: true, Min: 1, Max: 10},
			{Name: "length", Label: "Paragraph length", Default: "Medium", Options: []string{"Short", "Medium", "Long"}},
		},
		run: jsonRun(func(in Input, e env) ai.Request {
			return ai.Request{
				System: fmt.Sprintf("You are an academic project coordinator. Design presentation content for a group of %s students. Split the topic logically and evenly between %d presenters. For each slide assign a presenter and write a clear title, one %s paragraph and a concrete visual suggestion. Do not generate images, only the text structure.", e.level, in.Int("people"), strings.ToLower(in.Get("length"))),
				Prompt: fmt.Sprintf("Create presentation content about %q for %d presenters at the %s level with %s paragraphs. Give each presenter a balanced number of slides.", in.Get("topic"), in.Int("people"), e.level, strings.ToLower(in.Get("length"))),
			}
		}, func(in Input, _ env) *genai.Schema { return slidesSchema(in.Int("people")) }, "0.title"),
	},
	{
		ID:          IDTest,
		Name:        "Test Simulator",
		Description: "A multiple-choice quiz on any topic.",
		Kind:        KindJSON,
		Reward:      20,
		Fields: []Field{
			{Name: "topic", Label: "Topic", Required: true},
			{Name: "questions", Label: "Questions", Default: "5", Numeric: true, Min: 1, Max: 20},
		},
		run: jsonRun(quizPrompt("topic"), func(Input, env) *genai.Schema { return quizSchema() }, "0.question", "0.correctAnswer"),
	},
	{
		ID:          IDTranslator,
		Name:        "Academic Translator",
		Description: "Translates academic text while keeping its nuance.",
		Kind:        KindText,
		Reward:      10,
		Fields: []Field{
			{Name: "text", Label: "Text", Required: true},
			{Name: "from", Label: "From", Default: "English"},
			{Name: "to", Label: "To", Required: true},
		},
		run: textRun(func(in Input, e env) ai.Request {
			return ai.Request{
				System: fmt.Sprintf("You are an expert translator of academic texts. Translate from %s to %s, keeping the academic context and nuance of the original. Adapt terminology and style to a %s student.", in.Get("from"), in.Get("to"), e.level),
				Prompt: fmt.Sprintf("Translate the following text for a %s reader:\n\n%s", e.level, in.Get("text")),
			}
		}),
	},
	{
		ID:          IDPlanner,
		Name:        "Project Planner",
		Description: "Objectives, hypothesis and chapter outline for a research project.",
		Kind:        KindJSON,
		Reward:      15,
		Fields:      []Field{{Name: "topic", Label: "Research topic", Required: true}},
		run: jsonRun(func(in Input, e env) ai.Request {
			return ai.Request{
				System: fmt.Sprintf("You are a research advisor for a %s student. Help structure a research project whose objectives, justification and outline match the academic level. A postgraduate plan must be far more detailed and rigorous than a high school one.", e.level),
				Prompt: fmt.Sprintf("Create a detailed project plan for research on %q suited to a %s student.", in.Get("topic"), e.level),
			}
		}, func(Input, env) *genai.Schema { return projectPlanSchema() }, "title", "mainObjective", "chapterOutline"),
	},
	{
		ID:          IDCalculator,
		Name:        "Scientific Calculator",
		Description: "Solves an expression and explains each step.",
		Kind:        KindJSON,
		Reward:      10,
		Fields:      []Field{{Name: "expression", Label: "Expression", Required: true}},
		run: jsonRun(func(in Input, e env) ai.Request {
			return ai.Request{
				System: fmt.Sprintf("You are an expert maths and science tutor. Solve the given operation and explain the process step by step for a %s student. Break every step down for lower levels; at university level you may assume the basics but still show the crucial steps. Use markdown.", e.level),
				Prompt: fmt.Sprintf("Solve and explain this operation for a %s student: %q", e.level, in.Get("expression")),
			}
		}, func(Input, env) *genai.Schema { return calculationSchema() }, "result", "explanation"),
	},
	{
		ID:          IDReminders,
		Name:        "Smart Reminders",
		Description: "A spaced-repetition review schedule for what you just studied.",
		Kind:        KindJSON,
		Reward:      15,
		Fields:      []Field{{Name: "topic", Label: "Topic studied", Required: true}},
		run: jsonRun(func(in Input, e env) ai.Request {
			today := e.today.Format(reminders.DateLayout)
			return ai.Request{
				System: fmt.Sprintf("You are an expert in the science of learning. Build a schedule of 3 review reminders that maximises retention, at 1, 7 and 30 days from today, %s. Each note is a short question or task that pushes the student to actively recall. Adapt the wording for a %s student.", today, e.level),
				Prompt: fmt.Sprintf("The %s student has just studied %q. Create a spaced review schedule.", e.level, in.Get("topic")),
			}
		}, func(_ Input, e env) *genai.Schema { return reviewScheduleSchema(e.today.Format(reminders.DateLayout)) }, "0.note", "0.reviewDate"),
	},
	{
		ID:          IDPlagiarism,
		Name:        "Originality Checker",
		Description: "Estimates originality and suggests better phrasing.",
		Kind:        KindJSON,
		Reward:      20,
		Fields:      []Field{{Name: "text", Label: "Text", Required: true}},
		run: jsonRun(func(in Input, e env) ai.Request {
			return ai.Request{
				System: fmt.Sprintf("You are an academic integrity tool working on a text by a %s student. First estimate an originality percentage from 0 to 100 from writing patterns alone; be strict about stock phrases and structures. Then give constructive suggestions on clarity, style, structure and argument suited to the student's level, each with the original fragment, an improved version and why it is better.", e.level),
				Prompt: fmt.Sprintf("Check the originality of this text by a %s student and suggest improvements:\n\n---\n\n%s", e.level, in.Get("text")),
			}
		}, func(Input, env) *genai.Schema { return plagiarismSchema() }, "originalityScore", "summary"),
	},
	{
		ID:          IDReferences,
		Name:        "Reference Recommender",
		Description: "Five to seven key academic sources on a topic.",
		Kind:        KindJSON,
		Reward:      15,
		Fields:      []Field{{Name: "topic", Label: "Topic", Required: true}},
		run: jsonRun(func(in Input, e env) ai.Request {
			return ai.Request{
				System: fmt.Sprintf("You are an expert academic librarian. Recommend relevant academic sources (books, peer-reviewed articles and the like) for a %s student's research topic. For each give the title, authors, year, journal or publisher, a short note on its relevance and a valid URL when possible. Prefer accessible, foundational sources.", e.level),
				Prompt: fmt.Sprintf("Find 5 to 7 key academic references on %q for a %s student.", in.Get("topic"), e.level),
			}
		}, func(Input, env) *genai.Schema { return referencesSchema() }, "0.title"),
	},
	{
		ID:          IDInfographics,
		Name:        "Infographics Builder",
		Description: "Structured content for an infographic or a timeline.",
		Kind:        KindJSON,
		Reward:      20,
		Fields: []Field{
			{Name: "topic", Label: "Topic", Required: true},
			{Name: "type", Label: "Visual", Default: "infographic", Options: []string{"infographic", "timeline"}},
		},
		run: jsonRun(func(in Input, e env) ai.Request {
			return ai.Request{
				System: fmt.Sprintf("You are an information designer building the data for an educational visual for a %s student. For a timeline fill timelineEvents with key chronological events. For an infographic fill infographicSections with logical sections, each with a relevant icon. Always give an overall title and fill only the array for the requested visual.", e.level),
				Prompt: fmt.Sprintf("Topic: %q. Visual: %s. Student level: %s.", in.Get("topic"), in.Get("type"), e.level),
			}
		}, func(Input, env) *genai.Schema { return infographicSchema() }, "title"),
	},
	{
		ID:          IDDiagram,
		Name:        "Diagram Generator",
		Description: "Mermaid flowcharts and mind maps from a description.",
		Kind:        KindJSON,
		Reward:      20,
		Fields: []Field{
			{Name: "request", Label: "Description", Required: true},
			{Name: "type", Label: "Diagram", Default: "graph TD", Options: []string{"graph TD", "graph LR", "mindmap"}},
			{Name: "style", Label: "Node style", Default: "round", Options: []string{"rect", "round", "circle", "rhombus"}},
		},
		run: diagramRun(diagramPrompt),
	},
	{
		ID:          IDMapCreator,
		Name:        "Map Creator",
		Description: "Generates a map image from a description.",
		Kind:        KindImage,
		Reward:      25,
		Fields: []Field{
			{Name: "description", Label: "Map description", Required: true},
			{Name: "style", Label: "Style", Default: "political"},
			{Name: "palette", Label: "Colour palette", Default: "vibrant"},
		},
		run: imageRun(func(in Input) ai.ImageRequest {
			return ai.ImageRequest{
				Prompt:      fmt.Sprintf("Generate a map based on this description: %q.\n\nRequired visual characteristics:\n- Map style: %s.\n- Colour palette: %s.\n\nMake the map clear, accurate, legible and attractive. Include legends, capitals, borders or labels when relevant. The result should look like a high-quality modern atlas page or infographic.", in.Get("description"), in.Get("style"), in.Get("palette")),
				AspectRatio: "16:9",
			}
		}),
	},
	{
		ID:          IDCountryExplorer,
		Name:        "Country Explorer",
		Description: "A full country report with a map and a representative photo.",
		Kind:        KindJSON,
		Reward:      30,
		Fields:      []Field{{Name: "country", Label: "Country", Required: true}},
		run:         countryRun,
	},
	{
		ID:          IDReviewQuiz,
		Name:        "Review Quiz Generator",
		Description: "A multiple-choice quiz built from your own notes.",
		Kind:        KindJSON,
		Reward:      25,
		Fields: []Field{
			{Name: "text", Label: "Notes", Required: true},
			{Name: "questions", Label: "Questions", Default: "5", Numeric: true, Min: 1, Max: 20},
		},
		run: jsonRun(quizPrompt("text"), func(Input, env) *genai.Schema { return quizSchema() }, "0.question", "0.correctAnswer"),
	},
	{
		ID:              IDPDFReader,
		Name:            "PDF Reader",
		Description:     "Answers questions about a PDF using only its content.",
		Kind:            KindText,
		Reward:          25,
		RewardFor:       firstUseBonus(25, 5),
		Fields:          []Field{{Name: "question", Label: "Question", Required: true}},
		NeedsAttachment: []string{"application/pdf"},
		run: textRun(func(in Input, e env) ai.Request {
			return ai.Request{
				System:      documentSystem(e.level),
				Prompt:      fmt.Sprintf("Based only on the attached document, answer this question: %q", in.Get("question")),
				Attachments: []ai.Attachment{*in.Attachment},
			}
		}),
	},
	{
		ID:          IDDocumentReader,
		Name:        "Document Reader",
		Description: "Answers questions about a text document using only its content.",
		Kind:        KindText,
		Reward:      25,
		RewardFor:   firstUseBonus(25, 5),
		Fields: []Field{
			{Name: "document", Label: "Document text", Required: true},
			{Name: "question", Label: "Question", Required: true},
		},
		run: textRun(func(in Input, e env) ai.Request {
			return ai.Request{
				System: documentSystem(e.level),
				Prompt: documentPrompt(in.Get("document"), in.Get("question")),
			}
		}),
	},
}

// Catalog returns every tool in display order.
func Catalog() []Tool {
	out := make([]Tool, len(catalog))
	copy(out, catalog)
	return out
}

func Lookup(id string) (Tool, bool) {
	for _, t := range catalog {
		if strings.EqualFold(t.ID, strings.TrimSpace(id)) {
			return t, true
		}
	}
	return Tool{}, false
}

func quizPrompt(sourceField string) promptFunc {
	return func(in Input, e env) ai.Request {
		src := in.Get(sourceField)
		about := fmt.Sprintf("about %q", src)
		if sourceField == "text" {
			about = "based only on the following notes:\n\n" + src
		}
		return ai.Request{
			System: fmt.Sprintf("You are an expert quiz writer. Write a multiple-choice quiz whose difficulty, vocabulary and distractors are calibrated for a %s student.", e.level),
			Prompt: fmt.Sprintf("Write a %d-question multiple-choice quiz %s\n\nMake every question relevant and every option plausible, with exactly one correct answer.", in.Int("questions"), about),
		}
	}
}

func documentSystem(level string) string {
	return fmt.Sprintf("You are an expert document analyst. Answer questions using ONLY the content of the document provided. If the answer is not in the document, say clearly that the information is not available there. Do not invent anything. Match the clarity and simplicity of the answer to a %s student.", level)
}

func documentPrompt(doc, question string) string {
	return fmt.Sprintf("--- DOCUMENT START ---\n\n%s\n\n--- DOCUMENT END ---\n\nBased on the document above, answer this question: %q", doc, question)
}

var nodeShapes = map[string][2]string{
	"rect":    {"[", "]"},
	"round":   {"(", ")"},
	"circle":  {"((", "))"},
	"rhombus": {"{", "}"},
}

func diagramPrompt(in Input, e env) ai.Request {
	kind, style := in.Get("type"), in.Get("style")
	shape, ok := nodeShapes[style]
	if !ok {
		shape = nodeShapes["rect"]
	}
	start, end := shape[0], shape[1]

	var sys string
	if kind == "mindmap" {
		sys = fmt.Sprintf(`You write diagrams in Mermaid.js syntax. Return a JSON object whose diagramCode field holds the raw Mermaid code of a mind map.
1. The code MUST start with "mindmap".
2. Define every node as a unique one-word id followed by its shape and text: id%sNode text%s.
3. Express the hierarchy with indentation only, one node per line. The root has no indentation.
4. Use <br/> for line breaks inside node text. Pitch the content at a %s student.
5. No prose, explanations or markdown fences.

Example:
mindmap
  root%sLargest countries%s
    russia%sRussia<br/>Area: 17.1M km²%s
      russia_fact%sSpans 11 time zones%s
    canada%sCanada<br/>Area: 9.98M km²%s`,
			start, end, e.level, start, end, start, end, start, end, start, end)
	} else {
		rOpen, rClose := nodeShapes["rhombus"][0], nodeShapes["rhombus"][1]
		sys = fmt.Sprintf(`You write diagrams in Mermaid.js syntax. Return a JSON object whose diagramCode field holds the raw Mermaid code of a flowchart.
1. The code MUST start with "%s".
2. Define nodes as id%s"Node text"%s with a simple unique alphanumeric id. Node text MUST be in double quotes.
3. Put every node and every link on its own line ending with a semicolon. Link with -->, optionally labelled: A --"text"--> B;
4. Use <br/> inside the quotes for line breaks. Pitch the content at a %s student.
5. No prose, explanations or markdown fences.

Example:
%s
    A%s"Start<br/>With details."%s;
    B%s"Decision"%s;
    C%s"End"%s;
    A --> B;
    B --"Yes"--> C;
    B --"No"--> A;`,
			kind, start, end, e.level, kind, start, end, rOpen, rClose, start, end)
	}
	return ai.Request{System: sys, Prompt: fmt.Sprintf("User request: %q", in.Get("request"))}
}

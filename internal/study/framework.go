package study

import (
	"fmt"
	"strings"

	"github.com/abhisek/studybuddy/internal/knowledge"
)

// excerptLen bounds the framework text quoted in quiz options.
const excerptLen = 60

// BuildFramework fills the 7 W's and How from the first four qualifying
// sentences of extract (What, Why, When, How), using templated defaults
// for unfilled slots.
func BuildFramework(topic, extract string) Framework {
	sentences := splitSentences(extract)

	what := "a concept that requires further study"
	if s, ok := sentenceAt(sentences, 0); ok {
		what = s
	}
	why := "helps in various applications"
	if s, ok := sentenceAt(sentences, 1); ok {
		why = strings.ToLower(s)
	}
	when, ok := sentenceAt(sentences, 2)
	if !ok {
		when = fmt.Sprintf("The concept of %s has evolved over time.", topic)
	}
	how, ok := sentenceAt(sentences, 3)
	if !ok {
		how = fmt.Sprintf("%s works through specific mechanisms and processes.", topic)
	}

	return Framework{
		What:  fmt.Sprintf("%s is %s.", topic, what),
		Why:   fmt.Sprintf("Understanding %s is important because it %s.", topic, why),
		When:  when,
		Where: fmt.Sprintf("%s can be found or applied in various contexts and fields.", topic),
		Who:   fmt.Sprintf("Researchers, professionals, and students study %s.", topic),
		Which: fmt.Sprintf("Different aspects and types of %s exist depending on the context.", topic),
		Whom:  fmt.Sprintf("%s affects and benefits various groups of people and organizations.", topic),
		How:   how,
	}
}

// FrameworkPacket answers a definitional question from a fetched summary.
func FrameworkPacket(topic string, s *knowledge.Summary) *Packet {
	fw := BuildFramework(topic, s.Extract)

	return &Packet{
		Topic:        topic,
		WikipediaURL: s.URL,
		Summary: []string{
			"WHAT: " + fw.What,
			"WHY: " + fw.Why,
			"HOW: " + fw.How,
		},
		Quiz: []QuizItem{
			{
				Question: fmt.Sprintf("What is %s?", topic),
				Options: []string{
					"A) " + truncate(fw.What, excerptLen) + "...",
					"B) A type of food or cuisine",
					"C) A geographical location",
					"D) A fictional character",
				},
				CorrectAnswer: "A",
			},
			{
				Question: fmt.Sprintf("Why is understanding %s important?", topic),
				Options: []string{
					"A) It has no practical use",
					"B) " + truncate(fw.Why, excerptLen) + "...",
					"C) It's only for entertainment",
					"D) It's a historical artifact",
				},
				CorrectAnswer: "B",
			},
			{
				Question: fmt.Sprintf("Who studies or uses %s?", topic),
				Options: []string{
					"A) Only children",
					"B) Only celebrities",
					"C) Researchers, professionals, and students",
					"D) Nobody studies it",
				},
				CorrectAnswer: "C",
			},
		},
		StudyTip: fmt.Sprintf("To understand %s better, use the 7 W's and How framework: "+
			"What it is, Why it matters, When it's used, Where it applies, Who uses it, "+
			"Which types exist, Whom it affects, and How it works. "+
			"This comprehensive approach helps you grasp the complete picture.", topic),
		Framework:         &fw,
		IsFrameworkAnswer: true,
		Source:            SourceFramework,
	}
}

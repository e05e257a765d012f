package study

import (
	"fmt"
	"strings"
)

func packetPrompt(topic, extract string, mode Mode) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are a helpful study assistant. Based on this Wikipedia summary about %q:\n\n", topic)
	b.WriteString(extract)
	b.WriteString("\n\nGenerate the following in valid JSON format:\n")
	b.WriteString("1. A \"summary\" array with exactly 3 concise bullet points\n")
	b.WriteString("2. A \"quiz\" array with exactly 3 multiple choice questions, each having:\n")
	b.WriteString("   - \"question\": the question text\n")
	b.WriteString("   - \"options\": array of 4 options (A, B, C, D)\n")
	b.WriteString("   - \"correctAnswer\": the letter of the correct option\n")
	b.WriteString("3. A \"studyTip\": one practical study tip related to this topic\n")
	if mode == ModeMath {
		b.WriteString("4. A \"mathQuestion\" object with:\n")
		b.WriteString("   - \"question\": a quantitative or logic question\n")
		b.WriteString("   - \"answer\": the correct answer\n")
		b.WriteString("   - \"explanation\": step-by-step explanation\n")
	}
	b.WriteString("\nReturn ONLY valid JSON, no markdown formatting or code blocks.")
	return b.String()
}

const tutorSystem = "You are a helpful math tutor."

func tutorPrompt(problem string) string {
	var b strings.Builder
	b.WriteString("Solve this math problem step by step:\n\n")
	fmt.Fprintf(&b, "Problem: %s\n\n", problem)
	b.WriteString("Provide your response in valid JSON with:\n")
	b.WriteString("1. A \"summary\" array: what the problem is asking, the key concepts or formulas needed, and the final answer with units if applicable\n")
	b.WriteString("2. A \"solution\" object with \"steps\" (ordered list), \"answer\" and \"explanation\"\n")
	b.WriteString("3. A \"quiz\" array with 3 similar practice questions, each with 4 options (\"A) ...\" to \"D) ...\") and a \"correctAnswer\" letter\n")
	b.WriteString("4. A \"studyTip\" for solving similar problems\n")
	b.WriteString("\nReturn ONLY valid JSON, no markdown formatting or code blocks.")
	return b.String()
}

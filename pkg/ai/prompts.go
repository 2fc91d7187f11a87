package ai

import "fmt"

func oneShotPrompt(question string) string {
	return fmt.Sprintf("For the math question '%s', analyze the handwritten answer in the image. "+
		"If the answer is right, return 1, otherwise return 0. Return no other characters.", question)
}

func analysisPrompt(question string) string {
	return fmt.Sprintf("For the math question '%s', tell me whether the answer in the image is correct or incorrect. "+
		"Be very concise and to the point. Use the minimum amount of words possible.", question)
}

func decisionPrompt(analysis string) string {
	return fmt.Sprintf("My teacher has marked my math question. He has marked it as follows: %s. "+
		"I need you to distill his response into a single number. "+
		"If he has marked my answer as correct, return 1, otherwise return 0. Return no other characters.", analysis)
}

// oneShotSystemPrompts holds grading instructions for providers that take them out of band.
var oneShotSystemPrompts = map[ProviderID]string{
	ProviderAnthropic: `Instruction to Claude: Your response must be only 0 or 1, with no additional text. Below are examples to illustrate the expected output:

Example 1:

Input:
Prompt: "For the math question 2 + 2, analyze the handwritten answer in the image. If the answer is right, return 1, otherwise return 0."
Image: (Handwritten response: "4")
Expected Output:
1
Example 2:

Input:
Prompt: "For the math question 5 × 3, analyze the handwritten answer in the image. If the answer is right, return 1, otherwise return 0."
Image: (Handwritten response: "20")
Expected Output:
0
Example 3:

Input:
Prompt: "For the math question √16, analyze the handwritten answer in the image. If the answer is right, return 1, otherwise return 0."
Image: (Handwritten response: "5")
Expected Output:
0
Example 4:

Input:
Prompt: "For the math question 10 ÷ 2, analyze the handwritten answer in the image. If the answer is right, return 1, otherwise return 0."
Image: (Handwritten response: "5")
Expected Output:
1
Final Clarification:
Claude, your response must be either 0 or 1 with no extra text. Do not explain, do not add words, do not format the response in any way. Just return 0 or 1.`,
}

const analysisMaxTokens = 1000

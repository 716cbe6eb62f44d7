package gateway

// Output shapes are language independent so both template sets request the
// same bilingual JSON keys: every learner-facing field has a Gu twin.
const (
	lessonPlanShape = `{
  "title": "Lesson title",
  "titleGu": "પાઠનું શીર્ષક",
  "objectives": ["objective 1"],
  "objectivesGu": ["ઉદ્દેશ 1"],
  "introduction": "How to introduce the topic (5 min)",
  "introductionGu": "વિષય કેવી રીતે રજૂ કરવો",
  "mainContent": "Main teaching content",
  "mainContentGu": "મુખ્ય શિક્ષણ સામગ્રી",
  "activities": ["activity 1"],
  "activitiesGu": ["પ્રવૃત્તિ 1"],
  "assessment": "How to assess understanding",
  "assessmentGu": "સમજણ કેવી રીતે ચકાસવી",
  "homework": "Homework assignment",
  "homeworkGu": "ગૃહકાર્ય",
  "resources": ["teaching aids needed"],
  "boardContent": "What to write on blackboard"
}`

	quizShape = `{
  "title": "Quiz title",
  "titleGu": "ક્વિઝ શીર્ષક",
  "totalMarks": number,
  "duration": number (in minutes),
  "questions": [
    {
      "type": "mcq|short|long|truefalse|fill",
      "question": "Question in English",
      "questionGu": "પ્રશ્ન ગુજરાતીમાં",
      "options": ["option 1", "option 2"] (for MCQ only),
      "optionsGu": ["વિકલ્પ 1", "વિકલ્પ 2"],
      "answer": "correct answer",
      "answerGu": "સાચો જવાબ",
      "marks": number,
      "explanation": "why this is correct",
      "explanationGu": "આ શા માટે સાચું છે"
    }
  ]
}`

	homeworkShape = `{
  "score": 0-100,
  "isCorrect": boolean,
  "feedback": "Overall feedback",
  "feedbackGu": "એકંદર પ્રતિસાદ",
  "corrections": [
    {
      "problem": "Which problem",
      "original": "Student's answer",
      "correct": "Correct answer",
      "explanation": "Why it is wrong and how to fix it",
      "explanationGu": "ગુજરાતીમાં સમજૂતી"
    }
  ],
  "strengths": ["what the student did well"],
  "strengthsGu": ["વિદ્યાર્થીએ શું સારું કર્યું"],
  "improvements": ["areas to improve"],
  "improvementsGu": ["સુધારવા માટેના ક્ષેત્રો"]
}`

	safetyShape = `{
  "isSafe": boolean,
  "contentRating": "safe|caution|unsafe",
  "ageAppropriate": boolean,
  "concerns": ["list of concerns if any"],
  "concernsGu": ["ચિંતાઓની યાદી"],
  "recommendations": ["suggestions for improvement"],
  "recommendationsGu": ["સુધારણા માટેના સૂચનો"],
  "accuracy": {
    "isAccurate": boolean,
    "issues": ["any factual errors"]
  }
}`

	explainShape = `{
  "explanation": "Clear explanation in English",
  "explanationGu": "ગુજરાતીમાં સ્પષ્ટ સમજૂતી",
  "keyPoints": ["key point 1"],
  "keyPointsGu": ["મુખ્ય મુદ્દો 1"],
  "examples": [
    {"example": "Example description", "exampleGu": "ઉદાહરણ વર્ણન"}
  ],
  "analogies": [
    {"analogy": "Real-life comparison", "analogyGu": "વાસ્તવિક જીવન સરખામણી"}
  ],
  "commonMistakes": ["mistake students often make"],
  "commonMistakesGu": ["વિદ્યાર્થીઓ ઘણીવાર કરે છે તે ભૂલ"],
  "practiceProblems": [
    {"problem": "Practice problem", "problemGu": "અભ્યાસ સમસ્યા", "solution": "Solution", "solutionGu": "ઉકેલ"}
  ]
}`
)

// The safety review is written in English for both languages; only the
// output shape carries Gujarati fields.
const safetyPrompt = "Analyze the following educational content for safety and age-appropriateness.\n" +
	"Target age: %s years\n\n" +
	"Content to check:\n%s\n\n" +
	"Check for:\n" +
	"1. Inappropriate language or content\n" +
	"2. Accuracy of educational information\n" +
	"3. Age-appropriate complexity\n" +
	"4. Cultural sensitivity for Indian/Gujarati students\n" +
	"5. Any harmful or misleading information\n\n" +
	"Output as JSON:\n" + safetyShape

type templateSet struct {
	system     string
	lessonPlan string // class, subject, chapter, topic, duration, board
	quiz       string // count, class, subject, chapter, topics, difficulty, types
	homework   string // subject, homework, expected-answers line
	expected   string // expected answers
	safety     string // age, content
	explain    string // concept, class, subject, complexity
	custom     string // task, params JSON
	answer     string // context
}

var templates = map[Language]templateSet{
	LanguageGujarati: {
		system: "તમે GYAANSETU AI છો, ગુજરાતી વિદ્યાર્થીઓ માટેના શૈક્ષણિક સહાયક. " +
			"હંમેશા સચોટ અને વયને અનુરૂપ શૈક્ષણિક સામગ્રી આપો. " +
			"જ્યારે માંગવામાં આવે ત્યારે માન્ય JSON સ્વરૂપમાં જવાબ આપો.",
		lessonPlan: "ધોરણ %s %s માટે વિગતવાર પાઠ યોજના તૈયાર કરો.\n" +
			"પ્રકરણ: %s\nવિષયવસ્તુ: %s\nસમયગાળો: %s મિનિટ\nબોર્ડ: %s\n\n" +
			"નીચેના JSON સ્વરૂપમાં જવાબ આપો:\n" + lessonPlanShape,
		quiz: "%s પ્રશ્નોની ક્વિઝ તૈયાર કરો.\n" +
			"ધોરણ: %s\nવિષય: %s\nપ્રકરણ: %s\nવિષયવસ્તુ: %s\nમુશ્કેલી: %s\nપ્રશ્નના પ્રકાર: %s\n\n" +
			"નીચેના JSON સ્વરૂપમાં જવાબ આપો:\n" + quizShape,
		homework: "નીચેના %s ગૃહકાર્યનું મૂલ્યાંકન કરો અને રચનાત્મક પ્રતિભાવ આપો.\n\n" +
			"વિદ્યાર્થીનો જવાબ:\n%s\n%s\n" +
			"નીચેના JSON સ્વરૂપમાં જવાબ આપો:\n" + homeworkShape,
		expected: "\nઅપેક્ષિત જવાબો:\n%s\n",
		safety:   safetyPrompt,
		explain: "ખ્યાલ \"%s\" ધોરણ %s ના %s ના વિદ્યાર્થીઓ માટે સમજાવો.\n" +
			"જટિલતા: %s\nરોજિંદા જીવનના ઉદાહરણો આપો.\n\n" +
			"નીચેના JSON સ્વરૂપમાં જવાબ આપો:\n" + explainShape,
		custom: "તમે GYAANSETU AI એજન્ટ છો. નીચેનું કાર્ય કરો:\n\nકાર્ય: %s\n\nપરિમાણો: %s\n\n" +
			"ગુજરાતી અને અંગ્રેજી બંનેમાં JSON ફોર્મેટમાં વિગતવાર પરિણામ આપો.",
		answer: "તમે GYAANSETU AI છો, ગુજરાતી વિદ્યાર્થીઓ માટેના શૈક્ષણિક સહાયક.\n" +
			"જવાબ આપવા માટે નીચેના સંદર્ભનો ઉપયોગ કરો:\n\n%s\n\n" +
			"ગુજરાતીમાં સરળ ભાષામાં ઉદાહરણો સાથે જવાબ આપો.",
	},
	LanguageEnglish: {
		system: "You are GYAANSETU AI, an educational assistant for Gujarati students. " +
			"Always provide accurate, age-appropriate educational content. " +
			"When asked for JSON, output valid JSON only.",
		lessonPlan: "Prepare a detailed lesson plan for Class %s %s.\n" +
			"Chapter: %s\nTopic: %s\nDuration: %s minutes\nBoard: %s\n\n" +
			"Respond with JSON in this shape:\n" + lessonPlanShape,
		quiz: "Create a quiz with %s questions.\n" +
			"Class: %s\nSubject: %s\nChapter: %s\nTopics: %s\nDifficulty: %s\nQuestion types: %s\n\n" +
			"Respond with JSON in this shape:\n" + quizShape,
		homework: "Evaluate the following %s homework and give constructive feedback.\n\n" +
			"Student answer:\n%s\n%s\n" +
			"Respond with JSON in this shape:\n" + homeworkShape,
		expected: "\nExpected answers:\n%s\n",
		safety:   safetyPrompt,
		explain: "Explain the concept \"%s\" to Class %s %s students.\n" +
			"Complexity: %s\nUse everyday examples.\n\n" +
			"Respond with JSON in this shape:\n" + explainShape,
		custom: "You are GYAANSETU AI agent. Perform the following task:\n\nTask: %s\n\nParameters: %s\n\n" +
			"Provide the detailed result in JSON format with both English and Gujarati content.",
		answer: "You are GYAANSETU AI, an educational assistant for students.\n" +
			"Use the following context to answer:\n\n%s\n\n" +
			"Answer clearly with examples.",
	},
}

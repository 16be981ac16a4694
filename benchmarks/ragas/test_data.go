// ABOUTME: Test scenario data structures for RAGAS benchmarks
// ABOUTME: Defines fixture courses, question turns, and ground truth for each test

package ragas

// TestScenario represents a complete RAGAS benchmark test
type TestScenario struct {
	ID          string
	Name        string
	Description string
	Documents   map[string]string // file name -> course document
	Turns       []ConversationTurn
	GroundTruth GroundTruth
}

// ConversationTurn represents a single question in a test conversation.
// Turns in one scenario share a session.
type ConversationTurn struct {
	TurnNumber  int
	UserMessage string
}

// GroundTruth defines expected outcomes for RAGAS evaluation
type GroundTruth struct {
	// Turn whose answer is scored
	FinalQueryTurn      int
	ExpectedInResponse  []string // Strings that MUST appear in response
	ForbiddenInResponse []string // Strings that MUST NOT appear in response

	// Citations that should be returned with the final answer
	ExpectedSources []string
}

// TestResult represents the outcome of a benchmark test
type TestResult struct {
	TestID             string                 `json:"test_id"`
	TestName           string                 `json:"test_name"`
	FaithfulnessScore  float64                `json:"faithfulness_score"`
	ContextRecallScore float64                `json:"context_recall_score"`
	OverallScore       float64                `json:"overall_score"`
	Status             string                 `json:"status"` // "PASS" or "FAIL"
	Details            map[string]interface{} `json:"details,omitempty"`
	ErrorMessage       string                 `json:"error_message,omitempty"`
}

const mcpCourse = `Course Title: Introduction to the Model Context Protocol
Course Link: https://example.com/courses/mcp
Course Instructor: Elie Schoppik

Lesson 0: Why MCP
Lesson Link: https://example.com/courses/mcp/0
The Model Context Protocol standardizes how applications provide context to language models. Before MCP, every integration between a model and a data source was built by hand.

Lesson 1: Servers and Primitives
Lesson Link: https://example.com/courses/mcp/1
MCP servers expose three primitives. Tools are functions the model can call. Resources are read-only data such as files. Prompts are reusable templates that users can pick.

Lesson 2: Building a Client
Lesson Link: https://example.com/courses/mcp/2
An MCP client keeps a one-to-one connection with a server. The client lists the server's tools at startup and forwards tool calls from the model.
`

const retrievalCourse = `Course Title: Retrieval Augmented Generation Basics
Course Link: https://example.com/courses/rag
Course Instructor: Grace Hopper

Lesson 1: Embeddings
Lesson Link: https://example.com/courses/rag/1
Embeddings map text to vectors so that similar passages land close together. Cosine similarity compares two vectors by angle.

Lesson 2: Chunking
Lesson Link: https://example.com/courses/rag/2
Documents are split into overlapping chunks before they are embedded. Overlap keeps sentences that straddle a boundary retrievable from either side.
`

func fixtureCourses() map[string]string {
	return map[string]string{
		"mcp.txt": mcpCourse,
		"rag.txt": retrievalCourse,
	}
}

// GetLessonSearchTest asks about one lesson's content
func GetLessonSearchTest() TestScenario {
	return TestScenario{
		ID:          "lesson",
		Name:        "Lesson Content Search",
		Description: "Answer a question scoped to one lesson and cite that lesson",
		Documents:   fixtureCourses(),
		Turns: []ConversationTurn{
			{TurnNumber: 1, UserMessage: "In lesson 1 of the MCP course, what primitives do servers expose?"},
		},
		GroundTruth: GroundTruth{
			FinalQueryTurn:      1,
			ExpectedInResponse:  []string{"tools", "resources", "prompts"},
			ForbiddenInResponse: []string{"cosine"},
			ExpectedSources:     []string{"Introduction to the Model Context Protocol - Lesson 1"},
		},
	}
}

// GetOutlineTest asks for a course's structure
func GetOutlineTest() TestScenario {
	return TestScenario{
		ID:          "outline",
		Name:        "Course Outline",
		Description: "List a course's lessons using the outline tool",
		Documents:   fixtureCourses(),
		Turns: []ConversationTurn{
			{TurnNumber: 1, UserMessage: "What lessons are in the RAG basics course?"},
		},
		GroundTruth: GroundTruth{
			FinalQueryTurn:     1,
			ExpectedInResponse: []string{"Embeddings", "Chunking"},
			ExpectedSources:    []string{"Retrieval Augmented Generation Basics - Course Outline"},
		},
	}
}

// GetFollowUpTest relies on session history to resolve a follow-up
func GetFollowUpTest() TestScenario {
	return TestScenario{
		ID:          "followup",
		Name:        "Follow-up Question",
		Description: "Resolve a follow-up question using the previous exchange",
		Documents:   fixtureCourses(),
		Turns: []ConversationTurn{
			{TurnNumber: 1, UserMessage: "What does the RAG basics course say about chunking?"},
			{TurnNumber: 2, UserMessage: "Why does that lesson recommend overlap?"},
		},
		GroundTruth: GroundTruth{
			FinalQueryTurn:     2,
			ExpectedInResponse: []string{"boundary"},
			ExpectedSources:    []string{"Retrieval Augmented Generation Basics - Lesson 2"},
		},
	}
}

// GetGeneralKnowledgeTest checks the model answers without searching
func GetGeneralKnowledgeTest() TestScenario {
	return TestScenario{
		ID:          "general",
		Name:        "General Knowledge",
		Description: "Answer a question unrelated to the courses without citations",
		Documents:   fixtureCourses(),
		Turns: []ConversationTurn{
			{TurnNumber: 1, UserMessage: "What is the capital of France?"},
		},
		GroundTruth: GroundTruth{
			FinalQueryTurn:      1,
			ExpectedInResponse:  []string{"Paris"},
			ForbiddenInResponse: []string{"Model Context Protocol"},
		},
	}
}

// GetAllTests returns every benchmark scenario
func GetAllTests() []TestScenario {
	return []TestScenario{
		GetLessonSearchTest(),
		GetOutlineTest(),
		GetFollowUpTest(),
		GetGeneralKnowledgeTest(),
	}
}

// GetTest returns the scenario with the given id
func GetTest(id string) (TestScenario, bool) {
	for _, s := range GetAllTests() {
		if s.ID == id {
			return s, true
		}
	}
	return TestScenario{}, false
}

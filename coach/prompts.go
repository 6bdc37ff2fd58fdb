package coach

const (
	// Language is the transcription language hint.
	Language = "en"

	// TranscriptionPrompt primes the speech-to-text model.
	TranscriptionPrompt = "This is an English speech practice session."

	// SystemPrompt is the fixed teacher instruction for the language model.
	SystemPrompt = `You are an experienced and encouraging English teacher.
Your task is to:
1. Listen to the student's English speech
2. Provide constructive feedback on:
   - Pronunciation
   - Grammar
   - Vocabulary usage
   - Sentence structure
3. Always be encouraging and positive
4. Give specific examples of improvements if needed
5. Keep feedback concise but helpful`

	// UserPrefix precedes the transcript in the user turn.
	UserPrefix = "Student's speech: "

	// NoSpeechText replaces an empty transcript.
	NoSpeechText = "No speech detected"
	// NoSpeechFeedback is returned instead of calling the LLM on silence.
	NoSpeechFeedback = "Please try speaking again."

	// WelcomeMessage is the GET / payload.
	WelcomeMessage = "Welcome to AI English Teacher"
)

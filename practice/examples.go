package practice

import "strings"

// Topic is a named group of practice sentences.
type Topic struct {
	Name      string
	Sentences []string
}

var topics = []Topic{
	{
		Name: "Self Introduction",
		Sentences: []string{
			"Hi, my name is [Name]. I'm from [Country] and I love learning English.",
			"I'm a student studying computer science. In my free time, I enjoy playing sports.",
			"I've been learning English for two years, and I want to improve my speaking skills.",
		},
	},
	{
		Name: "Daily Routines",
		Sentences: []string{
			"Every morning, I wake up at 7 AM and have breakfast with my family.",
			"After work, I usually go to the gym and then cook dinner.",
			"On weekends, I like to meet friends and watch movies.",
		},
	},
	{
		Name: "Job Interview",
		Sentences: []string{
			"I have three years of experience in software development.",
			"My greatest strength is my ability to solve complex problems.",
			"I'm looking for opportunities to grow professionally in a dynamic company.",
		},
	},
	{
		Name: "Travel",
		Sentences: []string{
			"I'd like to book a room for two nights, please.",
			"Could you recommend some good local restaurants?",
			"What's the best way to get to the city center from here?",
		},
	},
}

// Examples returns the example library in display order. The result is a
// copy; callers may modify it.
func Examples() []Topic {
	out := make([]Topic, len(topics))
	for i, t := range topics {
		out[i] = Topic{Name: t.Name, Sentences: append([]string(nil), t.Sentences...)}
	}
	return out
}

// Category looks a topic up by name, ignoring case and surrounding space.
func Category(name string) (Topic, bool) {
	name = strings.TrimSpace(name)
	for _, t := range Examples() {
		if strings.EqualFold(t.Name, name) {
			return t, true
		}
	}
	return Topic{}, false
}

// CategoryNames lists topic names in display order.
func CategoryNames() []string {
	names := make([]string, len(topics))
	for i, t := range topics {
		names[i] = t.Name
	}
	return names
}

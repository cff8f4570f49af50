package practice

// TopicResult holds per-topic results for a practice run.
type TopicResult struct {
	Topic     string `json:"topic"`
	Attempted int    `json:"attempted"`
	Correct   int    `json:"correct"`
}

// Summary is shown when a practice run ends.
type Summary struct {
	Total    int           `json:"total"`
	Correct  int           `json:"correct"`
	Accuracy float64       `json:"accuracy"`
	Topics   []TopicResult `json:"topics"`
}

// Summarize tallies the first answer to every item of the set. Items that
// were never answered are left out.
func Summarize(set *Set) *Summary {
	var (
		sum   Summary
		index = map[string]int{}
	)
	for _, it := range set.Items {
		if !it.Answered {
			continue
		}
		sum.Total++
		if it.FirstCorrect {
			sum.Correct++
		}

		topic := it.Question.Topic
		if topic == "" {
			topic = "general"
		}
		i, ok := index[topic]
		if !ok {
			i = len(sum.Topics)
			index[topic] = i
			sum.Topics = append(sum.Topics, TopicResult{Topic: topic})
		}
		sum.Topics[i].Attempted++
		if it.FirstCorrect {
			sum.Topics[i].Correct++
		}
	}
	if sum.Total > 0 {
		sum.Accuracy = float64(sum.Correct) / float64(sum.Total)
	}
	return &sum
}

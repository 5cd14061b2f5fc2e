package harvest

import (
	"fmt"
	"os"
	"trustharvest/lib/scrapers/trustpilot"
	"trustharvest/lib/topics"

	"github.com/jedib0t/go-pretty/v6/table"
)

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}

// TopicDistribution computes, per taxonomy topic, the percentage of
// reviews mentioning it. Returns nil for an empty review set.
func TopicDistribution(reviews []trustpilot.Review) map[string]float64 {
	if len(reviews) == 0 {
		return nil
	}
	out := make(map[string]float64, len(topics.Taxonomy))
	for _, topic := range topics.Taxonomy {
		count := 0
		for _, r := range reviews {
			if r.Mentions[topic.Name] {
				count++
			}
		}
		out[topic.Name] = float64(count) / float64(len(reviews)) * 100
	}
	return out
}

// ReplyRate is the percentage of reviews carrying a company reply.
func ReplyRate(reviews []trustpilot.Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	count := 0
	for _, r := range reviews {
		if r.HasCompanyReply {
			count++
		}
	}
	return float64(count) / float64(len(reviews)) * 100
}

func PrintSummary(result Result) {
	fmt.Println()
	fmt.Println("HARVEST COMPLETE")
	fmt.Printf("Companies: %d\n", len(result.Profiles))
	fmt.Printf("Reviews:   %d\n", len(result.Reviews))
	if result.Paths.Profiles != "" {
		fmt.Printf("Profiles file: %s\n", result.Paths.Profiles)
	}
	if result.Paths.Reviews != "" {
		fmt.Printf("Reviews file:  %s\n", result.Paths.Reviews)
	}

	distribution := TopicDistribution(result.Reviews)
	if distribution == nil {
		return
	}

	t := newTable()
	t.AppendHeader(table.Row{"Topic", "Mentioned"})
	for _, topic := range topics.Taxonomy {
		t.AppendRow(table.Row{topic.Name, fmt.Sprintf("%.1f%%", distribution[topic.Name])})
	}
	t.Render()

	fmt.Printf("Company reply rate: %.1f%%\n", ReplyRate(result.Reviews))
}

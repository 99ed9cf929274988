package main

import (
	"github.com/spf13/cobra"
)

type classification struct {
	Text     string `json:"text"`
	Category string `json:"category"`
}

func newClassifyCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "classify <text...>",
		Short: "Classify free-form drop markers into lose, pickup, target or guaranteed",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			out := make([]classification, 0, len(args))
			for _, text := range args {
				out = append(out, classification{
					Text:     text,
					Category: string(a.matcher.Classify(text)),
				})
			}
			return a.writeJSON(out)
		},
	}
}

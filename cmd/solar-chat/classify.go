package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jaehyun-p/solar-chat/internal/adapters/hf"
	"github.com/jaehyun-p/solar-chat/internal/app/sentiment"
	"github.com/jaehyun-p/solar-chat/internal/config"
)

func newClassifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify <text>",
		Short: "Classify the sentiment of a piece of text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			pipeline := hf.New(cfg.SentimentModel,
				hf.WithBaseURL(cfg.HFAPIBase),
				hf.WithToken(cfg.HFAPIToken),
			)
			svc := sentiment.NewService(pipeline)

			res, err := svc.Classify(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}

			fmt.Println(res.Display())
			return nil
		},
	}
}

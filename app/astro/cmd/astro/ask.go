package main

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iWorld-y/astro_companion/app/astro/pkg/assistant"
	"github.com/iWorld-y/astro_companion/app/astro/pkg/logger"
)

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "列出对话入口",
	RunE: func(cmd *cobra.Command, args []string) error {
		for i, t := range assistant.Topics {
			fmt.Fprintf(cmd.OutOrStdout(), "%d. %s\n", i, t)
		}
		return nil
	},
}

var askCmd = &cobra.Command{
	Use:   "ask <topic-index> [text...]",
	Short: "与助手对话；不带文本时从标准输入逐行读取",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		topic, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("topic index must be a number: %w", err)
		}
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		id, opening, err := eng.StartConversation(topic)
		if err != nil {
			return err
		}
		defer func() {
			if err := eng.CloseConversation(ctx, id); err != nil {
				logger.Log.Warnf("关闭对话失败: %v", err)
			}
		}()
		fmt.Fprintln(out, opening)

		send := func(text string) error {
			reply, err := eng.SendMessage(ctx, id, text)
			if err != nil {
				return err
			}
			if reply != "" {
				fmt.Fprintf(out, "AI: %s\n", reply)
			}
			return nil
		}

		if len(args) > 1 {
			return send(strings.Join(args[1:], " "))
		}

		scanner := bufio.NewScanner(cmd.InOrStdin())
		for {
			fmt.Fprint(out, "You: ")
			if !scanner.Scan() {
				fmt.Fprintln(out)
				return scanner.Err()
			}
			line := scanner.Text()
			if line == "/exit" {
				return nil
			}
			if err := send(line); err != nil {
				return err
			}
		}
	},
}

package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"srhbot/config"
	"srhbot/content"
	"srhbot/database"
	"srhbot/engine"
	"srhbot/models"
	"srhbot/repository"
	"srhbot/services"
)

const askUserID = "cli"

var (
	askAge         string
	askPersonality string
	askSeed        uint64
	askJSON        bool
	askDir         string
	askResponder   bool
)

var askCmd = &cobra.Command{
	Use:   "ask [message]",
	Short: "Answer a message from the command line",
	Long: `Runs a message through the chat service and prints the result. With no
arguments, messages are read line by line from stdin and share one transcript.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		chat, err := newAskService()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		out := cmd.OutOrStdout()

		if len(args) > 0 {
			return ask(ctx, out, chat, strings.Join(args, " "))
		}
		scanner := bufio.NewScanner(cmd.InOrStdin())
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			if err := ask(ctx, out, chat, line); err != nil {
				return err
			}
		}
		return scanner.Err()
	},
}

func init() {
	askCmd.Flags().StringVar(&askAge, "age", string(engine.DefaultAgeGroup), "age group: 13-17, 18-25 or 26+")
	askCmd.Flags().StringVar(&askPersonality, "personality", string(engine.DefaultPersonality), "tone: friendly, professional, casual or empathetic")
	askCmd.Flags().Uint64Var(&askSeed, "seed", 0, "seed for tone decoration choice (0 = random)")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "print the full response as JSON")
	askCmd.Flags().StringVar(&askDir, "dir", "", "content directory layered over the embedded content")
	askCmd.Flags().BoolVar(&askResponder, "responder", false, "use the configured external responder for normal answers")
	rootCmd.AddCommand(askCmd)
}

// newAskService wires the chat service over a throwaway in-memory database
// and transcript.
func newAskService() (services.ChatService, error) {
	var opts []content.LibraryOption
	if askSeed != 0 {
		opts = append(opts, content.WithEngineOptions(engine.WithRandom(engine.NewSeededRandom(askSeed))))
	}
	lib, err := content.NewLibrary(askDir, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading content: %w", err)
	}

	db, err := database.Open("memory")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	profiles := repository.NewProfileRepository(db, engine.UserProfile{
		AgeGroup:    engine.AgeGroup(askAge),
		Personality: engine.PersonalityID(askPersonality),
	})

	var responder services.Responder
	if askResponder {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg.Responder.Enabled = true
		if responder, err = services.NewResponderFromConfig(cfg); err != nil {
			return nil, fmt.Errorf("creating responder: %w", err)
		}
	}
	return services.NewChatService(lib, profiles, repository.NewChatRepository(), responder, nil), nil
}

func ask(ctx context.Context, w io.Writer, chat services.ChatService, message string) error {
	result, err := chat.ProcessMessage(ctx, models.ChatRequest{UserID: askUserID, Message: message})
	if err != nil {
		return err
	}
	if askJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	if result.Title != "" {
		fmt.Fprintf(w, "## %s\n", result.Title)
	}
	fmt.Fprintln(w, result.Text())
	if len(result.Hotlines) > 0 {
		fmt.Fprintln(w, "\nHotlines:")
		for _, h := range result.Hotlines {
			fmt.Fprintf(w, "  %s: %s (%s)\n", h.Name, h.Phone, h.Hours)
		}
	}
	if result.ShowFacilityFinder {
		fmt.Fprintln(w, "\n[Find a facility near you]")
	}
	if len(result.Suggestions) > 0 {
		fmt.Fprintln(w, "\nYou could also ask:")
		for _, s := range result.Suggestions {
			fmt.Fprintf(w, "  - %s\n", s)
		}
	}
	fmt.Fprintln(w)
	return nil
}

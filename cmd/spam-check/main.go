package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mikey/comment-spam-guard/internal/adapters/filter"
	"github.com/mikey/comment-spam-guard/internal/core"
	"github.com/mikey/comment-spam-guard/internal/di"
	"github.com/mikey/comment-spam-guard/internal/ports"
	"go.uber.org/zap"
)

// errHeld makes the process exit with status 2 when the comment is held
var errHeld = errors.New("comment held for moderation")

func main() {
	flags := di.ParseFlags()

	container, err := di.BuildCLIContainer(flags)
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	if err := container.Invoke(run); err != nil {
		if errors.Is(err, errHeld) {
			os.Exit(2)
		}
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func run(
	flags *di.CLIFlags,
	logger *zap.Logger,
	cli *filter.CliFilter,
	reviewer core.CommentReviewer,
	store ports.Store,
) error {
	defer logger.Sync()
	defer store.Stop()

	if closer, ok := reviewer.(interface{ Close() error }); ok {
		defer closer.Close()
	}

	ctx := context.Background()

	switch {
	case flags.ListWords:
		return cli.ListWords(ctx)
	case flags.AddWord != "":
		return cli.AddWord(ctx, flags.AddWord)
	case flags.RemoveWord != "":
		return cli.RemoveWord(ctx, flags.RemoveWord)
	}

	content, err := readComment(flags.InputFile, logger)
	if err != nil {
		return err
	}

	decision, err := cli.ModerateComment(ctx, &core.Comment{
		PostID:      flags.PostID,
		AuthorID:    flags.AuthorID,
		AuthorName:  flags.AuthorName,
		AuthorEmail: flags.AuthorEmail,
		IPAddress:   flags.IPAddress,
		Content:     content,
	})
	if err != nil {
		return err
	}

	if decision.Status == core.StatusHeld {
		return errHeld
	}
	return nil
}

func readComment(path string, logger *zap.Logger) (string, error) {
	var r io.Reader = os.Stdin
	if path != "" {
		file, err := os.Open(path)
		if err != nil {
			return "", fmt.Errorf("failed to open input file: %w", err)
		}
		defer file.Close()
		r = file
		logger.Debug("Reading comment from file", zap.String("file", path))
	} else {
		logger.Debug("Reading comment from stdin")
	}

	body, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read comment: %w", err)
	}
	return string(body), nil
}

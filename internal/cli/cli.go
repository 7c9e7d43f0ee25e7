// Package cli provides the command line interface.
package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/tmoreno/trxd/internal/config"
	"github.com/tmoreno/trxd/internal/filter"
	"github.com/tmoreno/trxd/internal/output"
	"github.com/tmoreno/trxd/internal/services/clipboard"
	"github.com/tmoreno/trxd/internal/types"
	"github.com/tmoreno/trxd/internal/utils"
	"github.com/tmoreno/trxd/internal/walk"
)

const (
	formatFlagName      = "format"
	excludeFlagName     = "exclude"
	excludeDirFlagName  = "exclude-dir"
	excludeFileFlagName = "exclude-file"
	metadataFlagName    = "metadata"
	noEmojiFlagName     = "no-emoji"
	copyFlagName        = "copy"
	configFlagName      = "config"
	versionFlagName     = "version"

	formatFlagDescription      = "output format (tree, ascii, flat, csv, json, yaml)"
	excludeFlagDescription     = "glob pattern to exclude (files and directories)"
	excludeDirFlagDescription  = "glob pattern to exclude (directories only)"
	excludeFileFlagDescription = "glob pattern to exclude (files only)"
	metadataFlagDescription    = "show size and modification metadata"
	noEmojiFlagDescription     = "disable emoji glyphs in tree output"
	copyFlagDescription        = "copy the rendered output to the clipboard"
	configFlagDescription      = "path to a configuration file"
	versionFlagDescription     = "display application version"

	versionTemplate = "trxd version: %s\n"
	defaultPath     = "."

	rootUse              = "trxd [path]"
	rootShortDescription = "list a directory tree with filters and multiple output formats"
	rootLongDescription  = `trxd lists the contents of a directory with advanced filters.
It renders a decorated or plain tree, a flat path list, CSV rows, or a
nested JSON/YAML document, with optional size and modification metadata.`
	rootUsageExample = `  # Decorated tree of the current directory
  trxd

  # Flat listing with metadata, skipping caches
  trxd --format flat --metadata --exclude-dir __pycache__ src

  # Machine-readable output
  trxd --format json --metadata . > tree.json`

	// invalidFormatMessage mirrors the renderer-side diagnostic for early flag validation.
	invalidFormatMessage = "invalid format value '%s' (expected one of: %s)"
	// warningClipboardFormat reports a clipboard failure without failing the listing.
	warningClipboardFormat = "Warning: unable to copy output to clipboard: %v\n"
)

// Execute runs the trxd application.
func Execute() error {
	rootCommand := createRootCommand()
	return rootCommand.Execute()
}

// listingOptions stores the fully merged configuration for one invocation.
type listingOptions struct {
	rootPath        string
	formatName      string
	excludePatterns []string
	excludeDir      []string
	excludeFile     []string
	showMetadata    bool
	noEmoji         bool
	copyToClipboard bool
}

// createRootCommand builds the root Cobra command.
func createRootCommand() *cobra.Command {
	var showVersion bool
	var configFilePath string
	var flagFormat string
	var flagExclude []string
	var flagExcludeDir []string
	var flagExcludeFile []string
	var flagMetadata bool
	var flagNoEmoji bool
	var flagCopy bool

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		Example:      rootUsageExample,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		// main logs the returned error; cobra must not print it a second time.
		SilenceErrors: true,
		PersistentPreRun: func(command *cobra.Command, arguments []string) {
			if showVersion {
				fmt.Printf(versionTemplate, utils.GetApplicationVersion())
				os.Exit(0)
			}
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			rootPath := defaultPath
			if len(arguments) == 1 {
				rootPath = arguments[0]
			}

			applicationConfiguration, configurationError := config.LoadApplicationConfiguration(config.LoadOptions{
				ExplicitFilePath: configFilePath,
			})
			if configurationError != nil {
				return configurationError
			}

			options := mergeOptions(applicationConfiguration, command, listingOptions{
				rootPath:        rootPath,
				formatName:      strings.ToLower(flagFormat),
				excludePatterns: flagExclude,
				excludeDir:      flagExcludeDir,
				excludeFile:     flagExcludeFile,
				showMetadata:    flagMetadata,
				noEmoji:         flagNoEmoji,
				copyToClipboard: flagCopy,
			})

			if !types.IsSupportedFormat(options.formatName) {
				return fmt.Errorf(invalidFormatMessage, options.formatName, strings.Join(types.SupportedFormats, ", "))
			}

			return runListing(command.Context(), options, os.Stdout, os.Stderr, clipboard.NewService())
		},
	}

	rootCommand.PersistentFlags().BoolVar(&showVersion, versionFlagName, false, versionFlagDescription)
	rootCommand.Flags().StringVar(&configFilePath, configFlagName, "", configFlagDescription)
	rootCommand.Flags().StringVarP(&flagFormat, formatFlagName, "f", types.FormatTree, formatFlagDescription)
	rootCommand.Flags().StringArrayVarP(&flagExclude, excludeFlagName, "x", nil, excludeFlagDescription)
	rootCommand.Flags().StringArrayVar(&flagExcludeDir, excludeDirFlagName, nil, excludeDirFlagDescription)
	rootCommand.Flags().StringArrayVar(&flagExcludeFile, excludeFileFlagName, nil, excludeFileFlagDescription)
	rootCommand.Flags().BoolVarP(&flagMetadata, metadataFlagName, "m", false, metadataFlagDescription)
	rootCommand.Flags().BoolVar(&flagNoEmoji, noEmojiFlagName, false, noEmojiFlagDescription)
	rootCommand.Flags().BoolVar(&flagCopy, copyFlagName, false, copyFlagDescription)
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// mergeOptions overlays configuration file defaults under explicit flag
// values: a flag the user changed always wins, patterns accumulate.
func mergeOptions(applicationConfiguration config.ApplicationConfiguration, command *cobra.Command, flagOptions listingOptions) listingOptions {
	merged := flagOptions

	if !command.Flags().Changed(formatFlagName) && applicationConfiguration.Format != "" {
		merged.formatName = strings.ToLower(applicationConfiguration.Format)
	}
	merged.excludePatterns = utils.DeduplicatePatterns(append(append([]string{}, applicationConfiguration.Exclude...), flagOptions.excludePatterns...))
	merged.excludeDir = utils.DeduplicatePatterns(append(append([]string{}, applicationConfiguration.ExcludeDir...), flagOptions.excludeDir...))
	merged.excludeFile = utils.DeduplicatePatterns(append(append([]string{}, applicationConfiguration.ExcludeFile...), flagOptions.excludeFile...))
	if !command.Flags().Changed(metadataFlagName) && applicationConfiguration.Metadata != nil {
		merged.showMetadata = *applicationConfiguration.Metadata
	}
	if !command.Flags().Changed(noEmojiFlagName) && applicationConfiguration.NoEmoji != nil {
		merged.noEmoji = *applicationConfiguration.NoEmoji
	}
	if !command.Flags().Changed(copyFlagName) && applicationConfiguration.Copy != nil {
		merged.copyToClipboard = *applicationConfiguration.Copy
	}
	return merged
}

// runListing wires the walker to the selected renderer through a channel so
// streaming renderers consume entries as they are produced. Fatal errors
// (invalid root, invalid pattern, unknown format) surface before any output
// line is written.
func runListing(ctx context.Context, options listingOptions, stdout io.Writer, stderr io.Writer, copier clipboard.Copier) error {
	filterSpec, filterError := filter.Compile(options.excludePatterns, options.excludeDir, options.excludeFile)
	if filterError != nil {
		return filterError
	}

	var copyBuffer bytes.Buffer
	rendererWriter := stdout
	if options.copyToClipboard {
		rendererWriter = io.MultiWriter(stdout, &copyBuffer)
	}

	renderer, rendererError := output.New(options.formatName, output.Options{
		ShowMetadata: options.showMetadata,
		UseEmoji:     !options.noEmoji,
	}, rendererWriter)
	if rendererError != nil {
		return rendererError
	}

	walker := walk.NewWalker(walk.Options{
		Root:            options.rootPath,
		Filter:          filterSpec,
		CollectMetadata: options.showMetadata,
		Warn: func(message string) {
			fmt.Fprintln(stderr, message)
		},
	})

	if ctx == nil {
		ctx = context.Background()
	}
	if dispatchError := dispatchEntries(ctx, walker, renderer); dispatchError != nil {
		return dispatchError
	}
	if flushError := renderer.Flush(); flushError != nil {
		return flushError
	}

	if options.copyToClipboard && copier != nil {
		if copyError := copier.Copy(copyBuffer.String()); copyError != nil {
			fmt.Fprintf(stderr, warningClipboardFormat, copyError)
		}
	}
	return nil
}

// dispatchEntries runs the walker as producer and the renderer as consumer
// over a channel. The consumer may stop early; abandoning the sequence
// cancels the producer through the group context.
func dispatchEntries(ctx context.Context, walker *walk.Walker, renderer output.Renderer) error {
	group, streamCtx := errgroup.WithContext(ctx)
	entries := make(chan types.Entry)

	group.Go(func() error {
		defer close(entries)
		return walker.Walk(streamCtx, func(entry types.Entry) error {
			select {
			case <-streamCtx.Done():
				return streamCtx.Err()
			case entries <- entry:
				return nil
			}
		})
	})

	group.Go(func() error {
		for {
			select {
			case <-streamCtx.Done():
				return streamCtx.Err()
			case entry, open := <-entries:
				if !open {
					return nil
				}
				if handleError := renderer.Handle(entry); handleError != nil {
					return handleError
				}
			}
		}
	})

	if waitError := group.Wait(); waitError != nil && !errors.Is(waitError, context.Canceled) {
		return waitError
	}
	return nil
}

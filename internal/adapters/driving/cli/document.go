package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docassist-cli/internal/core/domain"
)

var documentCmd = &cobra.Command{
	Use:     "documents",
	Aliases: []string{"docs"},
	Short:   "Manage uploaded documents",
	Long:    `List, inspect, or delete the documents available as chat context.`,
}

var documentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List documents",
	Args:  cobra.NoArgs,
	RunE:  runDocumentList,
}

var documentShowCmd = &cobra.Command{
	Use:   "show [doc-id]",
	Short: "Show document details",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentShow,
}

var documentDeleteCmd = &cobra.Command{
	Use:   "delete [doc-id]",
	Short: "Delete a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentDelete,
}

var uploadCmd = &cobra.Command{
	Use:   "upload [file]...",
	Short: "Upload documents",
	Long: `Upload one or more files and follow them until they are ready.

Progress is printed for every state change. Press Ctrl-C to cancel the
remaining uploads.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runUpload,
}

func init() {
	documentCmd.AddCommand(documentListCmd)
	documentCmd.AddCommand(documentShowCmd)
	documentCmd.AddCommand(documentDeleteCmd)
	rootCmd.AddCommand(documentCmd)
	rootCmd.AddCommand(uploadCmd)
}

func runDocumentList(cmd *cobra.Command, _ []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	docs, err := documentService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if len(docs) == 0 {
		cmd.Println("No documents uploaded.")
		return nil
	}

	for i := range docs {
		cmd.Printf("  %s\n", docs[i].ID)
		cmd.Printf("    Name:   %s\n", docs[i].Name)
		cmd.Printf("    Status: %s\n", statusText(docs[i]))
		cmd.Printf("    Size:   %s\n", formatSize(docs[i].Size))
		cmd.Println()
	}

	cmd.Printf("Total: %d documents\n", len(docs))
	return nil
}

func runDocumentShow(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	doc, err := documentService.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	cmd.Printf("Document: %s\n\n", doc.ID)
	cmd.Printf("  Name:     %s\n", doc.Name)
	cmd.Printf("  Type:     %s\n", doc.MimeType)
	cmd.Printf("  Size:     %s\n", formatSize(doc.Size))
	cmd.Printf("  Uploaded: %s\n", doc.UploadDate.Format("2006-01-02 15:04:05"))
	cmd.Printf("  Status:   %s\n", statusText(*doc))
	if doc.URL != "" {
		cmd.Printf("  URL:      %s\n", doc.URL)
	}
	if doc.Error != "" {
		cmd.Printf("  Error:    %s\n", doc.Error)
	}
	return nil
}

func runDocumentDelete(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	if err := documentService.Delete(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	cmd.Printf("Deleted document: %s\n", args[0])
	return nil
}

func runUpload(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	var failed int
	for _, path := range args {
		file, err := readUploadFile(path)
		if err != nil {
			return err
		}

		doc, stream, err := documentService.Upload(cmd.Context(), file)
		if err != nil {
			return fmt.Errorf("failed to upload %s: %w", path, err)
		}
		cmd.Printf("Uploading %s (%s)\n", doc.Name, doc.ID)

		last := doc
		for update := range stream.Updates() {
			last = update
			cmd.Printf("  %s\n", statusText(update))
		}

		switch {
		case last.Status == domain.StatusReady:
			cmd.Printf("Ready: %s\n", last.Name)
		case last.Status == domain.StatusError:
			failed++
			cmd.Printf("Failed: %s: %s\n", last.Name, last.Error)
		default:
			if err := cmd.Context().Err(); err != nil {
				return fmt.Errorf("upload of %s cancelled: %w", last.Name, err)
			}
			return fmt.Errorf("upload of %s stopped at %s", last.Name, last.Status.Label())
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d uploads failed", failed, len(args))
	}
	return nil
}

func readUploadFile(path string) (domain.UploadFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return domain.UploadFile{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if info.IsDir() {
		return domain.UploadFile{}, fmt.Errorf("%s is a directory", path)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return domain.UploadFile{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return domain.UploadFile{
		Name:    filepath.Base(path),
		Content: content,
		Size:    info.Size(),
	}, nil
}

func statusText(doc domain.Document) string {
	switch {
	case doc.Status.InProgress():
		return fmt.Sprintf("%s %s %3d%%", doc.Status.Label(), progressBar(doc.ProcessingProgress, 20), doc.ProcessingProgress)
	case doc.Status == domain.StatusError && doc.Error != "":
		return doc.Status.Label() + ": " + doc.Error
	default:
		return doc.Status.Label()
	}
}

func progressBar(percent, width int) string {
	percent = domain.ClampProgress(percent)
	filled := percent * width / domain.ProgressMax
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}

func formatSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}

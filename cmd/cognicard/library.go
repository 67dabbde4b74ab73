package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"cognicard/internal/domain/models/library"
	librarySvc "cognicard/internal/domain/services/library"
	"cognicard/internal/workspace"
)

var (
	treeOpen      []string
	treeCollapsed bool
	treeJSON      bool
	deckDesc      string
	rmRecursive   bool
)

func init() {
	rootCmd.AddCommand(treeCmd, mkdirCmd, mkdeckCmd, mvCmd, renameCmd, rmCmd)

	treeCmd.Flags().BoolVar(&treeCollapsed, "collapsed", false, "show only top-level items unless opened with --open")
	treeCmd.Flags().StringSliceVar(&treeOpen, "open", nil, "folder paths to expand (with --collapsed)")
	treeCmd.Flags().BoolVar(&treeJSON, "json", false, "print the tree as JSON")

	mkdeckCmd.Flags().StringVar(&deckDesc, "description", "", "deck description")

	rmCmd.Flags().BoolVarP(&rmRecursive, "recursive", "r", false, "allow deleting a folder with everything in it")
}

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Show your folders and decks",
	Long: `Show your folders and decks, folders first, names in alphabetical order.

Examples:
  cognicard tree
  cognicard tree --collapsed --open Biology --open Biology/Genetics`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := loadWorkspace(cmd.Context())
		if err != nil {
			return err
		}

		tree := ws.Tree()
		if treeJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(tree)
		}

		if treeCollapsed {
			for _, path := range treeOpen {
				id, err := ws.ResolveFolder(path)
				if err != nil {
					return err
				}
				if id != nil {
					ws.OpenFolder(*id)
				}
			}
		} else {
			ws.ExpandAll()
		}

		counts := make(map[string]int)
		for _, d := range ws.Decks() {
			counts[d.ID] = d.CardCount
		}
		rows := workspace.Rows(tree, ws.View(), nil)
		if len(rows) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "Your library is empty. Create a deck with: cognicard mkdeck <name>")
			return nil
		}
		return workspace.PrintRows(cmd.OutOrStdout(), rows, counts)
	},
}

var mkdirCmd = &cobra.Command{
	Use:   "mkdir <path>",
	Short: "Create a folder",
	Long: `Create a folder. Every folder above it must already exist.

Examples:
  cognicard mkdir Biology
  cognicard mkdir Biology/Genetics`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := loadWorkspace(cmd.Context())
		if err != nil {
			return err
		}
		parentID, name, err := resolveNewPath(ws, args[0])
		if err != nil {
			return err
		}
		folder, err := ws.CreateFolder(cmd.Context(), name, parentID)
		if err != nil {
			return reported(err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created folder %s (%s)\n", folder.Name, folder.ID)
		return nil
	},
}

var mkdeckCmd = &cobra.Command{
	Use:   "mkdeck <path>",
	Short: "Create a deck",
	Long: `Create an empty deck. Import cards into it with "cognicard import".

Examples:
  cognicard mkdeck "Spanish Basics"
  cognicard mkdeck Biology/Cells --description "Organelles"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := loadWorkspace(cmd.Context())
		if err != nil {
			return err
		}
		folderID, name, err := resolveNewPath(ws, args[0])
		if err != nil {
			return err
		}
		deck, err := ws.CreateDeck(cmd.Context(), name, folderID)
		if err != nil {
			return reported(err)
		}
		if deckDesc != "" {
			desc := deckDesc
			req := librarySvc.UpdateDeckRequest{Description: &desc}
			if _, err := api.UpdateDeck(cmd.Context(), deck.ID, req); err != nil {
				return fmt.Errorf("deck created but description not saved: %w", err)
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created deck %s (%s)\n", deck.Name, deck.ID)
		return nil
	},
}

var mvCmd = &cobra.Command{
	Use:   "mv <path> <folder>",
	Short: "Move a folder or deck into another folder",
	Long: `Move a folder or deck. Use "/" as the destination to move to the top level.

Examples:
  cognicard mv Biology/Cells Chemistry
  cognicard mv "Biology/Spanish Basics" /`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := loadWorkspace(cmd.Context())
		if err != nil {
			return err
		}
		node, err := ws.ResolvePath(args[0])
		if err != nil {
			return err
		}
		target, err := ws.ResolveFolder(args[1])
		if err != nil {
			return err
		}

		outcome, err := ws.Move(cmd.Context(), workspace.Item{ID: node.ID, Kind: node.Kind}, target)
		if err != nil {
			return reported(err)
		}
		if outcome == workspace.MoveNoop {
			fmt.Fprintf(cmd.OutOrStdout(), "%s is already there\n", node.Name)
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "moved %s to %s\n", node.Name, displayFolder(args[1]))
		return nil
	},
}

var renameCmd = &cobra.Command{
	Use:   "rename <path> <new-name>",
	Short: "Rename a folder or deck",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := loadWorkspace(cmd.Context())
		if err != nil {
			return err
		}
		node, err := ws.ResolvePath(args[0])
		if err != nil {
			return err
		}

		ws.View().StartEditing(node.ID)
		if node.IsFolder() {
			err = ws.RenameFolder(cmd.Context(), node.ID, args[1])
		} else {
			err = ws.RenameDeck(cmd.Context(), node.ID, args[1])
		}
		if err != nil {
			return reported(err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "renamed %s to %s\n", node.Name, strings.TrimSpace(args[1]))
		return nil
	},
}

var rmCmd = &cobra.Command{
	Use:   "rm <path>",
	Short: "Delete a folder or deck",
	Long: `Delete a deck with its cards and study history, or a folder with everything inside it.
Folders that are not empty need -r.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := loadWorkspace(cmd.Context())
		if err != nil {
			return err
		}
		node, err := ws.ResolvePath(args[0])
		if err != nil {
			return err
		}

		if node.Kind == library.NodeDeck {
			if err := ws.DeleteDeck(cmd.Context(), node.ID); err != nil {
				return reported(err)
			}
		} else {
			if len(node.Children) > 0 && !rmRecursive {
				return fmt.Errorf("%s is not empty (use -r to delete it with its contents)", node.Name)
			}
			if err := ws.DeleteFolder(cmd.Context(), node.ID); err != nil {
				return reported(err)
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", node.Name)
		return nil
	},
}

// resolveNewPath splits "A/B/name" into the id of folder A/B and "name"
func resolveNewPath(ws *workspace.Workspace, path string) (*string, string, error) {
	parent, name := splitLast(path)
	if name == "" {
		return nil, "", fmt.Errorf("missing name in %q", path)
	}
	parentID, err := ws.ResolveFolder(parent)
	if err != nil {
		return nil, "", err
	}
	return parentID, name, nil
}

// splitLast returns everything before the last "/" and the trimmed final segment
func splitLast(path string) (string, string) {
	path = strings.TrimRight(strings.TrimSpace(path), "/")
	i := strings.LastIndex(path, "/")
	if i < 0 {
		return "", strings.TrimSpace(path)
	}
	return path[:i], strings.TrimSpace(path[i+1:])
}

func displayFolder(path string) string {
	if strings.Trim(path, "/ ") == "" {
		return "the top level"
	}
	return strings.Trim(path, "/")
}

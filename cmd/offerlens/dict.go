package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jmorel/offerlens/internal/dictionary"
	"github.com/jmorel/offerlens/internal/textnorm"
)

var dictCommand = &cobra.Command{
	Use:   "dict",
	Short: "Inspect and validate the skill dictionary",
}

var dictCheckCommand = &cobra.Command{
	Use:   "check",
	Short: "Validate dictionary sources without running anything",
	Long: `Compiles the dictionary the same way the enrich command does: schema
validation, synonym normalization, context pattern compilation and profile
cross-checks. With --dict-* flags the external sources are checked instead of
the embedded ones.`,
	RunE: runDictCheckCmd,
}

var (
	dictCheckTech     string
	dictCheckSoft     string
	dictCheckProfiles string
)

func init() {
	dictCheckCommand.Flags().StringVar(&dictCheckTech, "dict-tech", "", "Technical skills dictionary to check")
	dictCheckCommand.Flags().StringVar(&dictCheckSoft, "dict-soft", "", "Soft skills dictionary to check")
	dictCheckCommand.Flags().StringVar(&dictCheckProfiles, "dict-profiles", "", "Reference profiles to check")

	dictCommand.AddCommand(dictCheckCommand)
	rootCmd.AddCommand(dictCommand)
}

func runDictCheckCmd(_ *cobra.Command, _ []string) error {
	norm := textnorm.NewDefault()

	if dictCheckTech == "" && dictCheckSoft == "" && dictCheckProfiles == "" {
		dict, err := dictionary.Load(norm)
		if err != nil {
			return err
		}
		printDictSummary(dict)
		return nil
	}

	if dictCheckTech == "" || dictCheckSoft == "" || dictCheckProfiles == "" {
		return fmt.Errorf("--dict-tech, --dict-soft and --dict-profiles must be given together")
	}

	// Read the three sources concurrently; all read errors surface, not
	// just the first.
	var tech, soft, profiles []byte
	var g errgroup.Group
	g.Go(func() (err error) {
		tech, err = os.ReadFile(dictCheckTech)
		return err
	})
	g.Go(func() (err error) {
		soft, err = os.ReadFile(dictCheckSoft)
		return err
	})
	g.Go(func() (err error) {
		profiles, err = os.ReadFile(dictCheckProfiles)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	dict, err := dictionary.LoadFrom(tech, soft, profiles, norm)
	if err != nil {
		return err
	}
	printDictSummary(dict)
	return nil
}

func printDictSummary(dict *dictionary.Dictionary) {
	fmt.Printf("Dictionary OK: %d skills in %d categories, %d profiles\n",
		dict.Len(), len(dict.Categories()), len(dict.Profiles()))
	for _, cat := range dict.Categories() {
		kind, _ := dict.KindOf(cat)
		fmt.Printf("  %-20s %-10s %d skills\n", cat, kind, len(dict.SkillsIn(cat)))
	}
}

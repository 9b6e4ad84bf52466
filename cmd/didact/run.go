package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/didactlabs/didact/course"
	"github.com/didactlabs/didact/engine"
	"github.com/didactlabs/didact/export"
	"github.com/didactlabs/didact/extract"
	"github.com/didactlabs/didact/project"
)

func newRunCmd() *cobra.Command {
	var (
		sources  []string
		outPath  string
		title    string
		saveUser string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run an interactive course-building session",
		RunE: func(cmd *cobra.Command, args []string) error {
			gw, err := newGateway()
			if err != nil {
				return err
			}
			s := &session{
				engine: newEngine(gw),
				in:     bufio.NewReader(cmd.InOrStdin()),
				out:    cmd.OutOrStdout(),
			}
			return s.run(cmd.Context(), sources, outPath, title, saveUser)
		},
	}

	cmd.Flags().StringSliceVar(&sources, "source", nil, "source documents (txt, md, csv); repeatable")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write the final markdown document to this path")
	cmd.Flags().StringVarP(&title, "title", "t", "", "course title for export and save")
	cmd.Flags().StringVar(&saveUser, "save-as", "", "save the project under this user email")
	return cmd
}

// session drives one interactive run over stdin/stdout.
type session struct {
	engine *engine.Engine
	in     *bufio.Reader
	out    io.Writer
}

func (s *session) run(ctx context.Context, sources []string, outPath, title, saveUser string) error {
	fmt.Fprintln(s.out, "Welcome! Let's design your e-learning course together.")

	for {
		if err := s.gather(ctx); err != nil {
			return err
		}
		approved, err := s.confirmSummary(ctx)
		if err != nil {
			return err
		}
		if approved {
			break
		}
		s.engine.Modify()
		fmt.Fprintln(s.out, "\nStarting over. Let's gather the details again.")
	}

	if err := s.engine.Advance(); err != nil {
		return err
	}
	if err := s.analyze(ctx, sources); err != nil {
		return err
	}
	if err := s.engine.Advance(); err != nil {
		return err
	}
	if err := s.outline(ctx); err != nil {
		return err
	}
	if err := s.engine.Advance(); err != nil {
		return err
	}
	if err := s.storyboard(ctx); err != nil {
		return err
	}
	if err := s.engine.Advance(); err != nil {
		return err
	}
	if err := s.assessment(ctx); err != nil {
		return err
	}

	fmt.Fprintln(s.out, "\nCourse design complete.")

	doc := export.Markdown(s.engine.Course(), title)
	if outPath != "" {
		if err := os.WriteFile(outPath, []byte(doc), 0o644); err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Document written to %s\n", outPath)
	} else {
		fmt.Fprintln(s.out, "\n"+doc)
	}

	if saveUser != "" {
		if err := s.save(saveUser, title); err != nil {
			return err
		}
	}
	return nil
}

func (s *session) gather(ctx context.Context) error {
	for {
		question, done, err := s.engine.NextQuestion(ctx)
		if err != nil {
			return err
		}
		if done {
			break
		}
		answer, err := s.prompt(question)
		if err != nil {
			return err
		}
		if err := s.engine.SubmitAnswer(answer); err != nil {
			return err
		}
	}

	fmt.Fprintln(s.out, "\nGenerating the context summary...")
	summary, err := s.engine.Summarize(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(s.out, "\nSummary of collected context:\n\n"+summary)
	return nil
}

func (s *session) confirmSummary(ctx context.Context) (bool, error) {
	for {
		answer, err := s.prompt("\nApprove this summary? (yes / modify)")
		if err != nil {
			return false, err
		}
		switch course.DetectYesNo(answer) {
		case course.Yes:
			return true, nil
		case course.No:
			return false, nil
		}
		if strings.EqualFold(strings.TrimSpace(answer), "modify") {
			return false, nil
		}
		fmt.Fprintln(s.out, "Please answer 'yes' to continue or 'modify' to start over.")
	}
}

func (s *session) analyze(ctx context.Context, sources []string) error {
	if len(sources) > 0 {
		if err := s.loadSources(sources); err != nil {
			return err
		}
	}

	for {
		if s.engine.Course().SourceContent() == "" {
			fmt.Fprintln(s.out, "\nNo source material supplied; skipping content analysis.")
			return s.engine.SkipAnalysis()
		}

		fmt.Fprintln(s.out, "\nAnalyzing source content for gaps...")
		analysis, err := s.engine.AnalyzeGaps(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(s.out, "\nContent gap analysis:\n\n"+analysis)

		choice, err := s.prompt("\nHow should the gaps be addressed?\n  1) Generate content to fill gaps\n  2) Provide additional sources\n  3) No action needed\nChoice")
		if err != nil {
			return err
		}
		switch strings.TrimSpace(choice) {
		case "1":
			fmt.Fprintln(s.out, "Generating filler content...")
			if err := s.engine.ChooseDecision(ctx, engine.GenerateFiller); err != nil {
				return err
			}
			return nil
		case "2":
			if err := s.engine.ChooseDecision(ctx, engine.MoreSources); err != nil {
				return err
			}
			paths, err := s.prompt("Paths to additional files (space separated)")
			if err != nil {
				return err
			}
			if err := s.loadSources(strings.Fields(paths)); err != nil {
				return err
			}
		case "3":
			return s.engine.ChooseDecision(ctx, engine.Proceed)
		default:
			fmt.Fprintln(s.out, "Please choose 1, 2 or 3.")
		}
	}
}

func (s *session) outline(ctx context.Context) error {
	for {
		fmt.Fprintln(s.out, "\nGenerating the content outline...")
		_, err := s.engine.GenerateOutline(ctx)
		if err != nil && !engine.IsParseError(err) {
			return err
		}
		if engine.IsParseError(err) {
			fmt.Fprintln(s.out, "\nThe outline could not be parsed as a table. Raw response:")
		} else {
			fmt.Fprintln(s.out, "\nGenerated content outline:")
		}
		fmt.Fprintln(s.out, "\n"+s.engine.Course().OutlineRaw())

		ok, err := s.approve("Approve the outline?")
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		if err := s.engine.Regenerate(course.GenerateOutline); err != nil {
			return err
		}
	}
}

func (s *session) storyboard(ctx context.Context) error {
	for {
		fmt.Fprintln(s.out, "\nGenerating the storyboard. This may take a while...")
		_, err := s.engine.GenerateStoryboard(ctx)
		if err != nil && !engine.IsParseError(err) {
			return err
		}
		if engine.IsParseError(err) {
			fmt.Fprintln(s.out, "\nThe storyboard could not be parsed as a table. Raw response:")
		} else {
			fmt.Fprintln(s.out, "\nGenerated storyboard:")
		}
		fmt.Fprintln(s.out, "\n"+s.engine.Course().StoryboardRaw())

		ok, err := s.approve("Approve the storyboard?")
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		if err := s.engine.Regenerate(course.GenerateStoryboard); err != nil {
			return err
		}
	}
}

func (s *session) assessment(ctx context.Context) error {
	if course.WantsAssessment(s.engine.Course().Summary()) == course.Yes {
		ok, err := s.approve("Generate the final assessment?")
		if err != nil {
			return err
		}
		if !ok {
			return s.engine.SkipAssessment()
		}
	}

	text, err := s.engine.CreateAssessment(ctx)
	if err != nil {
		return err
	}
	if text == "" {
		fmt.Fprintln(s.out, "\nNo graded assessment was requested.")
		return nil
	}
	fmt.Fprintln(s.out, "\nFinal assessment questions:\n\n"+text)
	if s.engine.Stage() != course.Done {
		return s.engine.Advance()
	}
	return nil
}

func (s *session) loadSources(paths []string) error {
	var files []extract.File
	var closers []io.Closer
	defer func() {
		for _, c := range closers {
			c.Close()
		}
	}()

	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			log.Warn("cannot open source file", "path", path, "error", err)
			continue
		}
		closers = append(closers, f)
		files = append(files, extract.File{Name: path, Reader: f})
	}

	text, errs := extract.Aggregate(files, log)
	for _, err := range errs {
		log.Warn("extraction failure", "error", err)
	}
	if text != "" {
		s.engine.Course().AppendSourceContent(text)
		fmt.Fprintf(s.out, "Loaded %d source file(s).\n", len(files)-len(errs))
	}
	return nil
}

func (s *session) save(email, title string) error {
	if title == "" {
		title = "Untitled Course"
	}
	store, err := project.Open(cfg.Database)
	if err != nil {
		return err
	}
	user, err := store.EnsureUser(email, "")
	if err != nil {
		return err
	}
	p, err := store.SaveProject(user.ID, title, s.engine.Course())
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Project %q saved (%s)\n", p.Title, p.ID)
	return nil
}

func (s *session) prompt(question string) (string, error) {
	for {
		fmt.Fprintf(s.out, "\n%s\n> ", question)
		line, err := s.in.ReadString('\n')
		if err != nil && line == "" {
			return "", err
		}
		line = strings.TrimSpace(line)
		if line != "" {
			return line, nil
		}
		fmt.Fprintln(s.out, "Please provide a response.")
	}
}

func (s *session) approve(question string) (bool, error) {
	for {
		answer, err := s.prompt(question + " (yes / no)")
		if err != nil {
			return false, err
		}
		switch course.DetectYesNo(answer) {
		case course.Yes:
			return true, nil
		case course.No:
			return false, nil
		}
		fmt.Fprintln(s.out, "Please answer yes or no.")
	}
}

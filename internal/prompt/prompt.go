package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"foldersync/internal/logger"
	"foldersync/internal/model"
	"foldersync/internal/validate"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

type Prompter struct {
	fs  afero.Fs
	in  *bufio.Reader
	out io.Writer
}

func New(fs afero.Fs, in io.Reader, out io.Writer) *Prompter {
	return &Prompter{
		fs:  fs,
		in:  bufio.NewReader(in),
		out: out,
	}
}

// Ask prints question and reads one line. Running out of input is an error.
func (p *Prompter) Ask(question string) (string, error) {
	_, _ = fmt.Fprint(p.out, question)

	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		if errors.Is(err, io.EOF) {
			return "", io.ErrUnexpectedEOF
		}
		return "", fmt.Errorf("failed to read input: %w", err)
	}

	return strings.TrimRight(line, "\r\n"), nil
}

// Until asks question and then retry until check accepts the answer.
func Until[T any](p *Prompter, question, retry string, check func(string) (T, error)) (T, error) {
	q := question
	for {
		answer, err := p.Ask(q)
		if err != nil {
			var zero T
			return zero, err
		}

		v, err := check(answer)
		if err == nil {
			return v, nil
		}

		logger.Log.Debug("rejected input",
			zap.String("answer", answer),
			zap.Error(err))
		_, _ = fmt.Fprintf(p.out, "  %v\n", err)
		q = retry
	}
}

func (p *Prompter) SourceFolder() (string, error) {
	return Until(p,
		"Insert Source Folder Path: ",
		"Please enter a valid source folder path: ",
		func(s string) (string, error) {
			return validate.SourceFolder(p.fs, s)
		})
}

// ResolveReplica lets the operator create a new replica folder or pick an
// existing one.
func (p *Prompter) ResolveReplica(source string) (string, error) {
	create, err := Until(p,
		"Do you wish to create a new replica folder? (y, n): ",
		"Please enter a valid option (y, n): ",
		validate.YesNo)
	if err != nil {
		return "", err
	}

	if create {
		return Until(p,
			"Please enter a path for the new replica folder: ",
			"Please enter a valid new replica folder path: ",
			func(s string) (string, error) {
				return validate.NewReplica(p.fs, source, s)
			})
	}

	return Until(p,
		"Insert existing replica folder path: ",
		"Please enter a valid replica folder path: ",
		func(s string) (string, error) {
			return validate.ExistingReplica(p.fs, source, s)
		})
}

func (p *Prompter) LogDestination(source, replica string) (string, error) {
	return Until(p,
		"Insert log file destination path: ",
		"Please enter a valid log file destination path: ",
		func(s string) (string, error) {
			return validate.LogDestination(p.fs, source, replica, s)
		})
}

// Schedule asks for the unit until it is valid. The interval itself is asked
// once: a bad number is returned as an error, not retried.
func (p *Prompter) Schedule() (int, model.IntervalUnit, error) {
	question := "Please choose one period type to synchronize the folders (minute, hour, day): "
	unit, err := Until(p, question, question, validate.Unit)
	if err != nil {
		return 0, "", err
	}

	answer, err := p.Ask(fmt.Sprintf("Please enter the synchronization period (in %ss): ", unit))
	if err != nil {
		return 0, "", err
	}

	interval, err := validate.Interval(answer, unit)
	if err != nil {
		return 0, "", err
	}

	return interval, unit, nil
}

func (p *Prompter) PathConfig() (model.PathConfig, error) {
	source, err := p.SourceFolder()
	if err != nil {
		return model.PathConfig{}, err
	}

	replica, err := p.ResolveReplica(source)
	if err != nil {
		return model.PathConfig{}, err
	}

	logPath, err := p.LogDestination(source, replica)
	if err != nil {
		return model.PathConfig{}, err
	}

	interval, unit, err := p.Schedule()
	if err != nil {
		return model.PathConfig{}, err
	}

	return model.PathConfig{
		SourcePath:  source,
		ReplicaPath: replica,
		LogPath:     logPath,
		Interval:    interval,
		Unit:        unit,
	}, nil
}

// Another reports whether the operator wants to add one more pair. Anything
// but "y" means no.
func (p *Prompter) Another() (bool, error) {
	answer, err := p.Ask("Do you wish to synchronize another folder? (y, n): ")
	if err != nil {
		return false, err
	}

	return strings.EqualFold(strings.TrimSpace(answer), "y"), nil
}

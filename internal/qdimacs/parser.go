// Package qdimacs reads the QDIMACS format: a header line "p cnf N M", one
// or more quantifier blocks ("a ..." / "e ..."), then M zero-terminated
// clauses.
package qdimacs

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/mitchellh/go-sat/cnf"
	"github.com/pkg/errors"
)

// Formula is a parsed QDIMACS instance: a quantifier prefix over NumVars
// variables (Vars in prefix order, IsExistential[i] true when Vars[i] is
// bound existentially), followed by its clause matrix.
type Formula struct {
	NumVars       int
	Vars          []int
	IsExistential []bool
	Clauses       []cnf.Clause
}

// Open reads and parses the QDIMACS file at path. A missing file is
// reported distinctly (os.IsNotExist holds on the cause) so a caller can
// map it to a different exit code than a malformed one.
func Open(path string) (*Formula, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "qdimacs: opening %s", path)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads a QDIMACS instance from r. Malformed lines are collected via
// go-multierror rather than aborting at the first one, so a caller gets a
// complete picture of what is wrong with the input in one pass.
func Parse(r io.Reader) (*Formula, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)

	var merr *multierror.Error
	f := &Formula{}
	headerSeen := false
	lineNo := 0
	expectedClauses := -1

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "c") {
			continue
		}

		fields := strings.Fields(line)
		switch fields[0] {
		case "p":
			if headerSeen {
				merr = multierror.Append(merr, errors.Errorf("line %d: duplicate header", lineNo))
				continue
			}
			nv, nc, err := parseHeader(fields)
			if err != nil {
				merr = multierror.Append(merr, errors.Wrapf(err, "line %d", lineNo))
				continue
			}
			f.NumVars = nv
			expectedClauses = nc
			headerSeen = true

		case "a", "e":
			if !headerSeen {
				merr = multierror.Append(merr, errors.Errorf("line %d: quantifier block before header", lineNo))
				continue
			}
			vars, err := parseIntList(fields[1:])
			if err != nil {
				merr = multierror.Append(merr, errors.Wrapf(err, "line %d", lineNo))
				continue
			}
			for _, v := range vars {
				f.Vars = append(f.Vars, v)
				f.IsExistential = append(f.IsExistential, fields[0] == "e")
			}

		default:
			if !headerSeen {
				merr = multierror.Append(merr, errors.Errorf("line %d: clause before header", lineNo))
				continue
			}
			lits, err := parseIntList(fields)
			if err != nil {
				merr = multierror.Append(merr, errors.Wrapf(err, "line %d", lineNo))
				continue
			}
			c := make(cnf.Clause, len(lits))
			for i, l := range lits {
				c[i] = cnf.Literal(l)
			}
			f.Clauses = append(f.Clauses, c)
		}
	}

	if err := scanner.Err(); err != nil {
		merr = multierror.Append(merr, errors.Wrap(err, "reading input"))
	}
	if !headerSeen {
		merr = multierror.Append(merr, errors.New("missing \"p cnf\" header"))
	}
	if headerSeen && expectedClauses >= 0 && len(f.Clauses) != expectedClauses {
		merr = multierror.Append(merr, errors.Errorf(
			"header declared %d clauses, found %d", expectedClauses, len(f.Clauses)))
	}

	if merr.ErrorOrNil() != nil {
		return nil, merr.ErrorOrNil()
	}
	return f, nil
}

func parseHeader(fields []string) (numVars, numClauses int, err error) {
	if len(fields) != 4 || fields[1] != "cnf" {
		return 0, 0, errors.Errorf(`expected "p cnf <vars> <clauses>", got %q`, strings.Join(fields, " "))
	}
	numVars, err = strconv.Atoi(fields[2])
	if err != nil {
		return 0, 0, errors.Wrap(err, "parsing variable count")
	}
	numClauses, err = strconv.Atoi(fields[3])
	if err != nil {
		return 0, 0, errors.Wrap(err, "parsing clause count")
	}
	return numVars, numClauses, nil
}

// parseIntList parses a zero-terminated list of ints, dropping the trailing
// zero.
func parseIntList(fields []string) ([]int, error) {
	if len(fields) == 0 || fields[len(fields)-1] != "0" {
		return nil, errors.New("line is not zero-terminated")
	}
	out := make([]int, 0, len(fields)-1)
	for _, tok := range fields[:len(fields)-1] {
		v, err := strconv.Atoi(tok)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing %q", tok)
		}
		out = append(out, v)
	}
	return out, nil
}

// Package fibonacci is the benchmark workload: it prints the first n terms of
// the Fibonacci sequence.
package fibonacci

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// MaxTerms is the longest sequence whose terms fit in a uint64.
const MaxTerms = 94

// ErrOverflow is returned when the requested sequence does not fit in uint64.
var ErrOverflow = fmt.Errorf("fibonacci: more than %d terms overflow uint64", MaxTerms)

// Sequence returns the first n Fibonacci numbers, starting at 0.
// n <= 0 yields an empty sequence.
func Sequence(n int) ([]uint64, error) {
	if n <= 0 {
		return []uint64{}, nil
	}
	if n > MaxTerms {
		return nil, ErrOverflow
	}
	seq := make([]uint64, 1, n)
	if n == 1 {
		return seq, nil
	}
	seq = append(seq, 1)
	for i := 2; i < n; i++ {
		seq = append(seq, seq[i-1]+seq[i-2])
	}
	return seq, nil
}

const (
	promptText   = "Enter the number of Fibonacci terms to generate: "
	invalidInput = "Please enter a valid non-negative integer."
)

// Prompt asks for a term count on in and prints the sequence to out.
// Bad input is answered with a message on out, not an error; only write
// failures are returned.
func Prompt(in io.Reader, out io.Writer) error {
	if _, err := io.WriteString(out, promptText); err != nil {
		return err
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	n, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || n < 0 {
		_, err := fmt.Fprintln(out, invalidInput)
		return err
	}

	seq, err := Sequence(n)
	if errors.Is(err, ErrOverflow) {
		_, err := fmt.Fprintf(out, "Please enter at most %d terms.\n", MaxTerms)
		return err
	}

	terms := make([]string, len(seq))
	for i, v := range seq {
		terms[i] = strconv.FormatUint(v, 10)
	}
	_, err = fmt.Fprintf(out, "Fibonacci sequence:\n%s\n", strings.Join(terms, " "))
	return err
}

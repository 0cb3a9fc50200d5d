package model

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// FieldReader is just a simple reader for whitespace-delimited numeric text.
type FieldReader struct {
	Pos    int
	Fields []string
}

// NewFieldReader constructs a new field reader around the given data
func NewFieldReader(data string) *FieldReader {
	return &FieldReader{0, strings.Fields(data)}
}

// Read returns the next space-delimited field/token
func (fr *FieldReader) Read() (string, error) {
	if fr.Pos >= len(fr.Fields) {
		return "", io.EOF
	}
	p := fr.Pos
	fr.Pos++
	return fr.Fields[p], nil
}

// ReadFloat reads the next token as a float
func (fr *FieldReader) ReadFloat() (float64, error) {
	s, err := fr.Read()
	if err != nil {
		return 0, err
	}

	return strconv.ParseFloat(s, 64)
}

// ReadMatrix parses an n x k dense matrix from whitespace-delimited text.
// Values are row-major: one observation per line is the convention, but any
// whitespace layout with exactly n*k values is accepted.
func ReadMatrix(data []byte, n, k int) (*mat.Dense, error) {
	fr := NewFieldReader(string(data))
	if len(fr.Fields) != n*k {
		return nil, errors.Errorf("Expected %d values (%d x %d) but found %d", n*k, n, k, len(fr.Fields))
	}

	out := mat.NewDense(n, k, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < k; j++ {
			v, err := fr.ReadFloat()
			if err != nil {
				return nil, errors.Wrapf(err, "Could not parse value at row %d col %d", i, j)
			}
			out.Set(i, j, v)
		}
	}

	return out, nil
}

// ReadMatrixFile loads an n x k matrix from the named text file.
func ReadMatrixFile(filename string, n, k int) (*mat.Dense, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "Could not READ matrix from %s", filename)
	}

	out, err := ReadMatrix(data, n, k)
	if err != nil {
		return nil, errors.Wrapf(err, "Invalid matrix in %s", filename)
	}
	return out, nil
}

// ReadVectorFile loads a length-n vector from the named text file.
func ReadVectorFile(filename string, n int) (*mat.VecDense, error) {
	m, err := ReadMatrixFile(filename, n, 1)
	if err != nil {
		return nil, err
	}
	return mat.NewVecDense(n, mat.Col(nil, 0, m)), nil
}

// WriteMatrixFile writes a matrix as whitespace-delimited text, one row per
// line, in the format ReadMatrixFile accepts.
func WriteMatrixFile(filename string, a mat.Matrix) error {
	f, err := os.Create(filename)
	if err != nil {
		return errors.Wrapf(err, "Could not create %s", filename)
	}

	w := bufio.NewWriter(f)
	r, c := a.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if j > 0 {
				if _, err := w.WriteRune(' '); err != nil {
					f.Close()
					return errors.Wrapf(err, "Could not write to %s", filename)
				}
			}
			if _, err := fmt.Fprintf(w, "%g", a.At(i, j)); err != nil {
				f.Close()
				return errors.Wrapf(err, "Could not write to %s", filename)
			}
		}
		if _, err := w.WriteRune('\n'); err != nil {
			f.Close()
			return errors.Wrapf(err, "Could not write to %s", filename)
		}
	}

	if err := w.Flush(); err != nil {
		f.Close()
		return errors.Wrapf(err, "Could not flush %s", filename)
	}
	return errors.Wrapf(f.Close(), "Could not close %s", filename)
}

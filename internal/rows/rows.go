// Package rows reads and writes node-row files: a pretty-printed JSON array
// of row objects, or a CSV table with one row per node. It is an adapter
// around the codec, not part of it.
package rows

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rowtree/rowtree/internal/errors"
	"github.com/rowtree/rowtree/internal/models"
	"github.com/rowtree/rowtree/internal/pathcodec"
)

var csvHeader = []string{"path", "name", "value", "parent", "importParentPath", "depth"}

// Columns splits a node list into the three parallel slices the decoder
// consumes.
func Columns(nodes models.NodeList) (paths, names, values []string) {
	paths = make([]string, len(nodes))
	names = make([]string, len(nodes))
	values = make([]string, len(nodes))
	for i, n := range nodes {
		paths[i] = n.Path
		names[i] = n.Name
		values[i] = n.Value
	}
	return paths, names, values
}

// WriteJSON writes the rows as a pretty-printed JSON array.
func WriteJSON(w io.Writer, nodes models.NodeList) error {
	data, err := json.MarshalIndent(nodes, "", "  ")
	if err != nil {
		return errors.NewOutputError("failed to serialize node rows", err)
	}
	if _, err := fmt.Fprintln(w, string(data)); err != nil {
		return errors.NewOutputError("failed to write node rows", err)
	}
	return nil
}

// ReadJSON reads a JSON array of rows.
func ReadJSON(r io.Reader) (models.NodeList, error) {
	var nodes models.NodeList
	dec := json.NewDecoder(r)
	if err := dec.Decode(&nodes); err != nil {
		return nil, errors.NewInputError("failed to parse node-row JSON", err)
	}
	return nodes, nil
}

// WriteCSV writes the rows as a CSV table with a header line.
func WriteCSV(w io.Writer, nodes models.NodeList) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return errors.NewOutputError("failed to write CSV header", err)
	}
	for _, n := range nodes {
		record := []string{n.Path, n.Name, n.Value, n.Parent, n.ImportParentPath, strconv.Itoa(n.Depth)}
		if err := cw.Write(record); err != nil {
			return errors.NewOutputError("failed to write CSV row", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.NewOutputError("failed to flush CSV output", err)
	}
	return nil
}

// ReadCSV reads a CSV table of rows. The header line is optional; rows need
// at least the path, name and value columns, and missing parent or depth
// columns are derived from the path.
func ReadCSV(r io.Reader) (models.NodeList, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	var nodes models.NodeList
	first := true
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewInputError("failed to parse node-row CSV", err)
		}
		if first {
			first = false
			if len(record) > 0 && strings.EqualFold(record[0], "path") {
				continue
			}
		}
		if len(record) < 3 {
			return nil, errors.NewInputError(
				fmt.Sprintf("CSV row needs at least path, name and value columns, got %d", len(record)),
				nil,
			)
		}
		n := models.Node{
			Path:  record[0],
			Name:  record[1],
			Value: record[2],
		}
		if len(record) > 3 {
			n.Parent = record[3]
		} else {
			n.Parent = pathcodec.LastSegment(pathcodec.ParentPath(n.Path))
		}
		if len(record) > 4 {
			n.ImportParentPath = record[4]
		} else {
			n.ImportParentPath = pathcodec.ParentPath(n.Path)
		}
		if len(record) > 5 {
			if n.Depth, err = strconv.Atoi(record[5]); err != nil {
				return nil, errors.NewInputError(
					fmt.Sprintf("invalid depth %q for path %q", record[5], n.Path),
					err,
				)
			}
		} else {
			n.Depth = pathcodec.Depth(n.Path)
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

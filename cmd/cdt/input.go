package main

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/pkg/errors"
)

// Input is newline separated points in the form "x y", with each ring
// separated by an extra newline.
func readRings(in io.Reader) ([]orb.Ring, error) {
	rings := []orb.Ring{}
	scanner := bufio.NewScanner(in)
	ring := orb.Ring{}
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())

		// If it's empty, and we collected any points, this is the end of the ring
		if line == "" {
			if len(ring) > 0 {
				rings = append(rings, ring)
				ring = orb.Ring{}
			}
			continue
		}
		if strings.HasPrefix(line, "#") {
			continue
		}

		point, err := parsePoint(line)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", lineNumber)
		}
		ring = append(ring, point)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	// Handle trailing ring if any
	if len(ring) > 0 {
		rings = append(rings, ring)
	}
	return rings, nil
}

func parsePoint(line string) (orb.Point, error) {
	parts := strings.Fields(line)
	if len(parts) != 2 {
		return orb.Point{}, errors.Errorf("expected \"x y\", got %q", line)
	}
	x, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return orb.Point{}, errors.Wrap(err, "x")
	}
	y, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return orb.Point{}, errors.Wrap(err, "y")
	}
	return orb.Point{x, y}, nil
}

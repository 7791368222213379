package repository

import (
	"math"
	"sort"

	"google.golang.org/protobuf/encoding/protowire"
)

// Field numbers of prometheus.WriteRequest and its nested messages
const (
	writeRequestTimeseries protowire.Number = 1

	timeSeriesLabels  protowire.Number = 1
	timeSeriesSamples protowire.Number = 2

	labelName  protowire.Number = 1
	labelValue protowire.Number = 2

	sampleValue     protowire.Number = 1
	sampleTimestamp protowire.Number = 2
)

// gaugeSample is one gauge value ready to be framed as a TimeSeries
type gaugeSample struct {
	Name        string
	Value       float64
	Labels      map[string]string
	TimestampMs int64
}

// encodeWriteRequest encodes samples as a remote-write WriteRequest
func encodeWriteRequest(samples []gaugeSample) []byte {
	var b []byte
	for _, s := range samples {
		b = protowire.AppendTag(b, writeRequestTimeseries, protowire.BytesType)
		b = protowire.AppendBytes(b, encodeTimeSeries(s))
	}
	return b
}

// encodeTimeSeries writes labels sorted by name, with __name__ first
func encodeTimeSeries(s gaugeSample) []byte {
	names := make([]string, 0, len(s.Labels))
	for k := range s.Labels {
		if k != "__name__" {
			names = append(names, k)
		}
	}
	sort.Strings(names)

	var b []byte
	b = appendLabel(b, "__name__", s.Name)
	for _, k := range names {
		b = appendLabel(b, k, s.Labels[k])
	}

	var sample []byte
	sample = protowire.AppendTag(sample, sampleValue, protowire.Fixed64Type)
	sample = protowire.AppendFixed64(sample, math.Float64bits(s.Value))
	sample = protowire.AppendTag(sample, sampleTimestamp, protowire.VarintType)
	sample = protowire.AppendVarint(sample, uint64(s.TimestampMs))

	b = protowire.AppendTag(b, timeSeriesSamples, protowire.BytesType)
	b = protowire.AppendBytes(b, sample)
	return b
}

func appendLabel(b []byte, name, value string) []byte {
	var label []byte
	label = protowire.AppendTag(label, labelName, protowire.BytesType)
	label = protowire.AppendString(label, name)
	label = protowire.AppendTag(label, labelValue, protowire.BytesType)
	label = protowire.AppendString(label, value)

	b = protowire.AppendTag(b, timeSeriesLabels, protowire.BytesType)
	return protowire.AppendBytes(b, label)
}

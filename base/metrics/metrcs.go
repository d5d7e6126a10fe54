/*
Package metrics wraps datadog-go to faciliate metric recording
Following are naming convention of metric:
- Internal process time: *.time
- External latency: *.latency
- Error: *.err
- Warning: *.warn
*/
package metrics

import (
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/x-xyz/settlement/base/env"
	"github.com/x-xyz/settlement/base/log"
)

const (
	// TagValueNA is used for tags whose values are not available.
	TagValueNA = "n/a"

	// sampleRate 1 means always send
	sampleRate = 1.0
)

// Ender provides interface for BumpTime
type Ender interface {
	End()
}

// Service provides interface for metrics
type Service interface {
	BumpAvg(key string, val float64, tags ...string)
	BumpSum(key string, val float64, tags ...string)
	BumpHistogram(key string, val float64, tags ...string)

	BumpTime(key string, tags ...string) Ender
}

type statsCli interface {
	Gauge(name string, value float64, tags []string, rate float64) error
	Count(name string, value int64, tags []string, rate float64) error
	Histogram(name string, value float64, tags []string, rate float64) error
	TimeInMilliseconds(name string, value float64, tags []string, rate float64) error
}

// Option is functional parameter for metrics option
type Option func(*opt)

type opt struct {
	// withPodName means send metrics with pod name or not
	// default: true
	withPodName bool
}

// WithoutPodName drops the pod tag from every metric
func WithoutPodName() Option {
	return func(o *opt) {
		o.withPodName = false
	}
}

// New creates a datadog backed metric client with package name as prefix
func New(pkgName string, options ...Option) Service {
	return newMetrics(pkgName, datadogClient, options...)
}

// NewLogMetrics creates a metric client that only logs, for tests and local runs
func NewLogMetrics(pkgName string, options ...Option) Service {
	lc := &LogClient{}
	return newMetrics(pkgName, func() statsCli { return lc }, options...)
}

func newMetrics(pkgName string, cli func() statsCli, options ...Option) Service {
	o := opt{
		withPodName: true,
	}
	for _, option := range options {
		option(&o)
	}

	ddTags := []string{
		// using host removes all tags associated with host
		// ref: https://docs.datadoghq.com/developers/dogstatsd/data_types/#host-tag-key
		"host:",
		"env:" + viper.GetString("env_name"),
		"app:" + viper.GetString("app_name"),
	}
	if o.withPodName {
		ddTags = append(ddTags, "pod:"+env.PodName())
	}

	return &Metrics{
		pkgName: pkgName,
		ddTags:  ddTags,
		cli:     cli,
	}
}

// Metrics prefixes every key with the package name and appends global tags.
type Metrics struct {
	pkgName string
	ddTags  []string
	cli     func() statsCli
}

func (mt *Metrics) tags(tags []string) []string {
	res := make([]string, 0, len(mt.ddTags)+len(tags)/2)
	res = append(res, mt.ddTags...)
	return append(res, parseTag(tags)...)
}

func (mt *Metrics) key(key string) string {
	return mt.pkgName + `.` + key
}

// guard keeps a broken tag list from crashing the caller
func (mt *Metrics) guard(fn string, key string, tags []string) {
	if err := recover(); err != nil {
		log.Log().WithFields(log.Fields{
			"err":  err,
			"func": fn,
			"key":  mt.key(key) + "#" + strings.Join(tags, "#"),
		}).Error("metrics panic")
	}
}

// BumpAvg bumps the average for the given key.
func (mt *Metrics) BumpAvg(key string, val float64, tags ...string) {
	defer mt.guard("BumpAvg", key, tags)
	if err := mt.cli().Gauge(mt.key(key), val, mt.tags(tags), sampleRate); err != nil {
		log.Log().WithFields(log.Fields{"err": err, "key": key, "val": val, "func": "BumpAvg"}).Error("Bump fail")
	}
}

// BumpSum bumps the sum for the given key.
func (mt *Metrics) BumpSum(key string, val float64, tags ...string) {
	defer mt.guard("BumpSum", key, tags)
	if err := mt.cli().Count(mt.key(key), int64(val), mt.tags(tags), sampleRate); err != nil {
		log.Log().WithFields(log.Fields{"err": err, "key": key, "val": val, "func": "BumpSum"}).Error("Bump fail")
	}
}

// BumpHistogram bumps the histogram for the given key.
func (mt *Metrics) BumpHistogram(key string, val float64, tags ...string) {
	defer mt.guard("BumpHistogram", key, tags)
	if err := mt.cli().Histogram(mt.key(key), val, mt.tags(tags), sampleRate); err != nil {
		log.Log().WithFields(log.Fields{"err": err, "key": key, "val": val, "func": "BumpHistogram"}).Error("Bump fail")
	}
}

// BumpTime starts a timer, End() records it. Typical use:
//
//	defer s.BumpTime("settle.time").End()
func (mt *Metrics) BumpTime(key string, tags ...string) Ender {
	return &timeTracker{
		start: time.Now(),
		end: func(dur float64) {
			defer mt.guard("BumpTime", key, tags)
			if err := mt.cli().TimeInMilliseconds(mt.key(key), dur, mt.tags(tags), sampleRate); err != nil {
				log.Log().WithFields(log.Fields{"err": err, "key": key, "val": dur, "func": "BumpTime"}).Error("Bump fail")
			}
		},
	}
}

func parseTag(tags []string) []string {
	if tags == nil {
		return nil
	}
	if len(tags)%2 != 0 {
		log.Log().WithField("tags", tags).Panic("tag length needs to be multiple of 2")
	}
	arr := make([]string, len(tags)/2)
	for i := 0; i < len(tags); i += 2 {
		arr[i/2] = tags[i] + ":" + tags[i+1]
	}
	return arr
}

type timeTracker struct {
	start time.Time
	end   func(float64)
}

func (t *timeTracker) End() {
	d := time.Since(t.start)
	msec := d / time.Millisecond
	nsec := d % time.Millisecond
	t.end(float64(msec) + float64(nsec)*1e-6)
}

package client

import (
	"crypto/tls"
	"io"
	"log/slog"
	"time"

	imapkit "github.com/imapkit/imapkit"
	"github.com/imapkit/imapkit/headerdecode"
)

// Option configures a Session at construction time.
type Option func(*Options)

// Options holds Session configuration assembled from Option funcs.
type Options struct {
	TLSConfig *tls.Config
	Logger    *slog.Logger

	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// UnilateralDataHandler receives every EXISTS/EXPUNGE/FETCH/RECENT
	// untagged response read while a command is in flight, whether the
	// command asked for it or not (a FETCH command's own results are
	// passed to it too), per spec §4.E's single-flight model: there is
	// no background reader, so these are only delivered synchronously,
	// interleaved with the response to whatever command was issued.
	UnilateralDataHandler *UnilateralDataHandler

	// Trace, when set, receives a copy of the raw wire traffic.
	Trace io.Writer

	// FolderRoot, FolderSeparator, FolderAltRoot, and
	// FolderCaseInsensitive configure the folder-name rewriter
	// (spec §4.F).
	FolderRoot            string
	FolderSeparator       rune
	FolderAltRoot         string
	FolderCaseInsensitive bool

	// HeaderDecoder, when nil, falls back to the default RFC 2047/MIME
	// charset decoder (spec §4.H).
	HeaderDecoder headerdecode.Decoder

	// ParseEnvelope and ParseBodystructure control whether the ENVELOPE
	// and BODYSTRUCTURE FETCH items are reshaped into MessageAttrs.Envelope
	// / MessageAttrs.BodyStructure. Both default on; turning one off
	// leaves the corresponding field nil and the raw parsed value under
	// Raw["envelope"] / Raw["bodystructure"] instead (spec §4.G).
	ParseEnvelope      bool
	ParseBodystructure bool

	// IncludeRawAddresses, when on, additionally populates
	// Envelope.RawFrom/RawSender/... with the full 4-tuple (including
	// the source-route element the reshaped From/Sender/... fields
	// drop). Off by default.
	IncludeRawAddresses bool

	// DecodeHeaderWords, when on, decodes RFC 2047 encoded-words in
	// ENVELOPE string fields (Subject) via HeaderDecoder. Off by
	// default — decoding is opt-in even though a HeaderDecoder is
	// always configured, since a caller may want the raw encoded-word
	// form.
	DecodeHeaderWords bool
}

// UnilateralDataHandler receives EXISTS/EXPUNGE/RECENT/FETCH data
// observed while waiting for a tagged completion, solicited or not.
type UnilateralDataHandler struct {
	Exists  func(count uint32)
	Expunge func(seqNum uint32)
	Recent  func(count uint32)
	Fetch   func(seqNum uint32, attrs *imapkit.MessageAttrs)
}

// DefaultOptions returns the baseline configuration new Sessions start
// from before applying caller Option funcs.
func DefaultOptions() *Options {
	return &Options{
		Logger:             slog.Default(),
		ReadTimeout:        30 * time.Minute,
		WriteTimeout:       1 * time.Minute,
		FolderSeparator:    '/',
		ParseEnvelope:      true,
		ParseBodystructure: true,
	}
}

// WithTLSConfig sets the TLS config used by DialTLS / StartTLS.
func WithTLSConfig(cfg *tls.Config) Option {
	return func(o *Options) { o.TLSConfig = cfg }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) { o.Logger = logger }
}

// WithReadTimeout sets the per-read I/O deadline.
func WithReadTimeout(d time.Duration) Option {
	return func(o *Options) { o.ReadTimeout = d }
}

// WithWriteTimeout sets the per-write I/O deadline.
func WithWriteTimeout(d time.Duration) Option {
	return func(o *Options) { o.WriteTimeout = d }
}

// WithUnilateralDataHandler installs the unsolicited-data callback set.
func WithUnilateralDataHandler(h *UnilateralDataHandler) Option {
	return func(o *Options) { o.UnilateralDataHandler = h }
}

// WithTrace installs a raw wire-traffic trace sink.
func WithTrace(w io.Writer) Option {
	return func(o *Options) { o.Trace = w }
}

// WithFolderRewrite configures the folder-name rewriter (spec §4.F):
// root is the server-side prefix to strip/add (e.g. "INBOX"), sep is
// the server's hierarchy separator, altRoot is an optional second
// accepted root prefix, and caseInsensitive controls whether root
// matching ignores case.
func WithFolderRewrite(root string, sep rune, altRoot string, caseInsensitive bool) Option {
	return func(o *Options) {
		o.FolderRoot = root
		o.FolderSeparator = sep
		o.FolderAltRoot = altRoot
		o.FolderCaseInsensitive = caseInsensitive
	}
}

// WithHeaderDecoder overrides the default MIME header decoder.
func WithHeaderDecoder(d headerdecode.Decoder) Option {
	return func(o *Options) { o.HeaderDecoder = d }
}

// WithParseEnvelope toggles ENVELOPE reshaping (default on). When off,
// the raw parsed value is stashed under MessageAttrs.Raw["envelope"]
// instead of populating MessageAttrs.Envelope.
func WithParseEnvelope(enabled bool) Option {
	return func(o *Options) { o.ParseEnvelope = enabled }
}

// WithParseBodystructure toggles BODYSTRUCTURE/BODY reshaping (default
// on). When off, the raw parsed value is stashed under
// MessageAttrs.Raw["bodystructure"] instead of populating
// MessageAttrs.BodyStructure.
func WithParseBodystructure(enabled bool) Option {
	return func(o *Options) { o.ParseBodystructure = enabled }
}

// WithIncludeRawAddresses toggles population of Envelope's
// RawFrom/RawSender/RawReplyTo/RawTo/RawCc/RawBcc fields with the full
// RFC 3501 4-tuple, including the source-route element the reshaped
// From/Sender/... fields omit. Off by default.
func WithIncludeRawAddresses(enabled bool) Option {
	return func(o *Options) { o.IncludeRawAddresses = enabled }
}

// WithDecodeHeaderWords toggles RFC 2047 encoded-word decoding of
// ENVELOPE string fields via the configured HeaderDecoder. Off by
// default.
func WithDecodeHeaderWords(enabled bool) Option {
	return func(o *Options) { o.DecodeHeaderWords = enabled }
}

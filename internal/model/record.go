package model

import (
	"strings"
	"unicode/utf8"
)

// Version is the fdscan release version.
const Version = "v0.3.1"

// MaxNameLen bounds the length in bytes of a resolved descriptor target.
const MaxNameLen = 1024

// Record is one observed (process, descriptor) pair, or a (process, count)
// summary produced by the threshold check. Records are values; build them with
// NewDescriptor or NewSummary.
type Record struct {
	PID   int              `json:"pid"`
	FD    Optional[int]    `json:"fd"`
	Count Optional[int]    `json:"count"`
	Name  string           `json:"name"`
	Inode Optional[uint64] `json:"inode"`
}

// NewDescriptor builds a descriptor record. name is truncated to MaxNameLen.
func NewDescriptor(pid, fd int, name string, inode uint64) Record {
	return Record{
		PID:   pid,
		FD:    Some(fd),
		Name:  TruncateName(name),
		Inode: Some(inode),
	}
}

// NewSummary builds a summary record holding a process's descriptor count.
func NewSummary(pid, count int) Record {
	return Record{
		PID:   pid,
		Count: Some(count),
	}
}

// IsSummary reports whether r is a summary record rather than a descriptor record.
func (r Record) IsSummary() bool {
	return r.Count.IsSet()
}

// Kind classifies the descriptor target. Summary records are KindOther.
func (r Record) Kind() Kind {
	if r.IsSummary() {
		return KindOther
	}
	return ClassifyTarget(r.Name)
}

// TruncateName cuts s to at most MaxNameLen bytes without splitting a UTF-8
// sequence.
func TruncateName(s string) string {
	if len(s) <= MaxNameLen {
		return s
	}
	cut := MaxNameLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// Kind is the broad class of object a descriptor refers to.
type Kind string

const (
	KindFile   Kind = "file"
	KindSocket Kind = "socket"
	KindPipe   Kind = "pipe"
	KindAnon   Kind = "anon"
	KindDevice Kind = "device"
	KindOther  Kind = "other"
)

// ClassifyTarget maps a link target as read from /proc/<pid>/fd to a Kind.
func ClassifyTarget(target string) Kind {
	switch {
	case strings.HasPrefix(target, "socket:["):
		return KindSocket
	case strings.HasPrefix(target, "pipe:["):
		return KindPipe
	case strings.HasPrefix(target, "anon_inode:"):
		return KindAnon
	case strings.HasPrefix(target, "/dev/"):
		return KindDevice
	case strings.HasPrefix(target, "/"):
		return KindFile
	default:
		return KindOther
	}
}

package decoding

import (
	"sort"
	"strconv"
	"strings"

	"HostFacts/pkg/failure"
)

// procStatFields is the number of positional fields decoded from
// /proc/[pid]/stat, through cguest_time (field 44). Kernels newer than
// 2.6.24 append more fields; they are ignored.
const procStatFields = 44

// ProcessStat is the decoded /proc/[pid]/stat record. Times are in clock
// ticks, sizes as reported (VSize in bytes, RSS in pages).
type ProcessStat struct {
	Pid                 int    `json:"pid"`
	Name                string `json:"name"`
	State               string `json:"state"`
	PPid                int    `json:"ppid"`
	Pgrp                int    `json:"pgrp"`
	Session             int    `json:"session"`
	TtyNr               int    `json:"tty_nr"`
	Tpgid               int    `json:"tpgid"`
	Flags               uint64 `json:"flags"`
	MinFlt              uint64 `json:"minflt"`
	CMinFlt             uint64 `json:"cminflt"`
	MajFlt              uint64 `json:"majflt"`
	CMajFlt             uint64 `json:"cmajflt"`
	UTime               uint64 `json:"utime"`
	STime               uint64 `json:"stime"`
	CUTime              int64  `json:"cutime"`
	CSTime              int64  `json:"cstime"`
	Priority            int64  `json:"priority"`
	Nice                int64  `json:"nice"`
	NumThreads          int64  `json:"num_threads"`
	ItRealValue         int64  `json:"itrealvalue"`
	StartTime           uint64 `json:"starttime"`
	VSize               uint64 `json:"vsize"`
	RSS                 int64  `json:"rss"`
	RSSLim              uint64 `json:"rsslim"`
	StartCode           uint64 `json:"startcode"`
	EndCode             uint64 `json:"endcode"`
	StartStack          uint64 `json:"startstack"`
	KstkESP             uint64 `json:"kstkesp"`
	KstkEIP             uint64 `json:"kstkeip"`
	Signal              uint64 `json:"signal"`
	Blocked             uint64 `json:"blocked"`
	SigIgnore           uint64 `json:"sigignore"`
	SigCatch            uint64 `json:"sigcatch"`
	WChan               uint64 `json:"wchan"`
	NSwap               uint64 `json:"nswap"`
	CNSwap              uint64 `json:"cnswap"`
	ExitSignal          int    `json:"exit_signal"`
	Processor           int    `json:"processor"`
	RTPriority          uint64 `json:"rt_priority"`
	Policy              uint64 `json:"policy"`
	DelayAcctBlkioTicks uint64 `json:"delayacct_blkio_ticks"`
	GuestTime           uint64 `json:"guest_time"`
	CGuestTime          int64  `json:"cguest_time"`
}

// Processes is ordered by ascending pid.
type Processes []ProcessStat

// SortByPid restores ascending pid order.
func (ps Processes) SortByPid() {
	sort.Slice(ps, func(i, j int) bool { return ps[i].Pid < ps[j].Pid })
}

// ByPid indexes the collection by process id.
func (ps Processes) ByPid() map[int]ProcessStat {
	m := make(map[int]ProcessStat, len(ps))
	for _, p := range ps {
		m[p.Pid] = p
	}
	return m
}

// DecodeProcStat decodes a /proc/[pid]/stat record. The process name sits
// between the first '(' and the last ')', so names containing spaces or
// parentheses do not shift the following fields.
func DecodeProcStat(raw string) (ProcessStat, error) {
	record := strings.TrimRight(raw, "\n")
	open := strings.IndexByte(record, '(')
	end := strings.LastIndexByte(record, ')')
	if open == -1 || end == -1 || end < open {
		return ProcessStat{}, failure.Malformedf("proc/stat", record, "process name is not parenthesized")
	}

	head := strings.Fields(record[:open])
	tail := strings.Fields(record[end+1:])
	if len(head) != 1 {
		return ProcessStat{}, failure.Malformedf("proc/stat", record, "expected a single pid before the name, got %d tokens", len(head))
	}
	if total := len(head) + 1 + len(tail); total < procStatFields {
		return ProcessStat{}, failure.FieldCount("proc/stat", record, procStatFields, total)
	}

	p := statParser{record: record, fields: tail}
	st := ProcessStat{Name: record[open+1 : end]}
	pid, err := strconv.Atoi(head[0])
	if err != nil {
		return ProcessStat{}, failure.Malformed("proc/stat", record, err)
	}
	st.Pid = pid

	// tail[0] is field 3 (state).
	st.State = tail[0]
	st.PPid = p.i(1)
	st.Pgrp = p.i(2)
	st.Session = p.i(3)
	st.TtyNr = p.i(4)
	st.Tpgid = p.i(5)
	st.Flags = p.u64(6)
	st.MinFlt = p.u64(7)
	st.CMinFlt = p.u64(8)
	st.MajFlt = p.u64(9)
	st.CMajFlt = p.u64(10)
	st.UTime = p.u64(11)
	st.STime = p.u64(12)
	st.CUTime = p.i64(13)
	st.CSTime = p.i64(14)
	st.Priority = p.i64(15)
	st.Nice = p.i64(16)
	st.NumThreads = p.i64(17)
	st.ItRealValue = p.i64(18)
	st.StartTime = p.u64(19)
	st.VSize = p.u64(20)
	st.RSS = p.i64(21)
	st.RSSLim = p.u64(22)
	st.StartCode = p.u64(23)
	st.EndCode = p.u64(24)
	st.StartStack = p.u64(25)
	st.KstkESP = p.u64(26)
	st.KstkEIP = p.u64(27)
	st.Signal = p.u64(28)
	st.Blocked = p.u64(29)
	st.SigIgnore = p.u64(30)
	st.SigCatch = p.u64(31)
	st.WChan = p.u64(32)
	st.NSwap = p.u64(33)
	st.CNSwap = p.u64(34)
	st.ExitSignal = p.i(35)
	st.Processor = p.i(36)
	st.RTPriority = p.u64(37)
	st.Policy = p.u64(38)
	st.DelayAcctBlkioTicks = p.u64(39)
	st.GuestTime = p.u64(40)
	st.CGuestTime = p.i64(41)

	if p.err != nil {
		return ProcessStat{}, p.err
	}
	return st, nil
}

// statParser keeps the first numeric error so the field list above stays
// flat.
type statParser struct {
	record string
	fields []string
	err    error
}

func (p *statParser) u64(i int) uint64 {
	if p.err != nil {
		return 0
	}
	v, err := strconv.ParseUint(p.fields[i], 10, 64)
	if err != nil {
		p.err = failure.Malformed("proc/stat", p.record, err)
	}
	return v
}

func (p *statParser) i64(i int) int64 {
	if p.err != nil {
		return 0
	}
	v, err := strconv.ParseInt(p.fields[i], 10, 64)
	if err != nil {
		p.err = failure.Malformed("proc/stat", p.record, err)
	}
	return v
}

func (p *statParser) i(n int) int {
	return int(p.i64(n))
}

// ParsePID reports whether a /proc entry name is a process id.
func ParsePID(name string) (int, bool) {
	if name == "" || name[0] < '0' || name[0] > '9' {
		return 0, false
	}
	pid, err := strconv.Atoi(name)
	if err != nil || pid <= 0 {
		return 0, false
	}
	return pid, true
}

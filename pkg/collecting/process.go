package collecting

import (
	"runtime"
	"sort"
	"sync"

	"HostFacts/pkg/decoding"
)

// Pids lists the numeric entries of /proc in ascending order.
func (h *Host) Pids() ([]int, error) {
	names, err := h.FS.ListDir(h.FS.Proc())
	if err != nil {
		return nil, err
	}
	pids := make([]int, 0, len(names)/2)
	for _, name := range names {
		if pid, ok := decoding.ParsePID(name); ok {
			pids = append(pids, pid)
		}
	}
	sort.Ints(pids)
	return pids, nil
}

// StatProcess decodes /proc/<pid>/stat.
func (h *Host) StatProcess(pid int) (decoding.ProcessStat, error) {
	raw, err := h.FS.ReadFile(h.FS.Proc(pidDir(pid), "stat"))
	if err != nil {
		return decoding.ProcessStat{}, err
	}
	return decoding.DecodeProcStat(raw)
}

// Process returns nil when the pid does not exist, including when it exits
// between the existence check and the read.
func (h *Host) Process(pid int) (*decoding.ProcessStat, error) {
	dir := h.FS.Proc(pidDir(pid))
	if !h.FS.IsDir(dir) {
		return nil, nil
	}
	st, err := h.StatProcess(pid)
	if err != nil {
		if absent(err) && !h.FS.Exists(dir) {
			return nil, nil
		}
		return nil, err
	}
	return &st, nil
}

// Processes decodes every process, ascending by pid. Processes that exit
// mid-enumeration or cannot be decoded are skipped; failing to list /proc
// is returned.
func (h *Host) Processes() (decoding.Processes, error) {
	pids, err := h.Pids()
	if err != nil {
		return nil, err
	}
	if h.Concurrent {
		return h.processesConcurrent(pids), nil
	}

	out := make(decoding.Processes, 0, len(pids))
	for _, pid := range pids {
		if st, ok := h.tryStat(pid); ok {
			out = append(out, st)
		}
	}
	return out, nil
}

func (h *Host) tryStat(pid int) (decoding.ProcessStat, bool) {
	st, err := h.StatProcess(pid)
	if err != nil {
		h.skip("proc", pidDir(pid), err)
		return decoding.ProcessStat{}, false
	}
	return st, true
}

func (h *Host) processesConcurrent(pids []int) decoding.Processes {
	numWorkers := runtime.NumCPU()
	pidChan := make(chan int, len(pids))
	resultChan := make(chan decoding.ProcessStat, len(pids))

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for pid := range pidChan {
				if st, ok := h.tryStat(pid); ok {
					resultChan <- st
				}
			}
		}()
	}

	for _, pid := range pids {
		pidChan <- pid
	}
	close(pidChan)
	wg.Wait()
	close(resultChan)

	out := make(decoding.Processes, 0, len(pids))
	for st := range resultChan {
		out = append(out, st)
	}
	out.SortByPid()
	return out
}

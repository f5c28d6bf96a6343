package service

import (
	"codedrill_backend/internal/config"
	"codedrill_backend/pkg/logger"
	"codedrill_backend/pkg/monitoring"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/dop251/goja"
	"go.uber.org/zap"
)

// Run outcomes. A run is terminal per invocation; every new run starts clean.
const (
	RunAllPassed      = "all_passed"
	RunSomeFailed     = "some_failed"
	RunExecutionError = "execution_error"
)

type RunRequest struct {
	Code      string   `json:"code"`
	Scope     string   `json:"scope"`     // "all" or "failed"
	FailedIDs []string `json:"failedIds"` // test ids to rerun when scope is "failed"
	Shuffle   bool     `json:"shuffle"`
	TimeoutMS int      `json:"timeoutMs"`
}

type TestResult struct {
	TestID   string      `json:"testId"`
	Passed   bool        `json:"passed"`
	Input    []any       `json:"input"`
	Expected interface{} `json:"expected"`
	Actual   interface{} `json:"actual"`
	Error    string      `json:"error,omitempty"`
}

type RunResult struct {
	Status    string       `json:"status"`
	PassedAll bool         `json:"passedAll"`
	Results   []TestResult `json:"results"`
	Error     string       `json:"error,omitempty"`
}

// RunnerService executes submitted code against a problem's fixture tests in
// an embedded goja VM. Execution is synchronous per request; the only state
// it touches is the caller's progress row.
type RunnerService struct {
	ProgressService *ProgressService
	Cfg             *config.Config
}

func NewRunnerService(progressService *ProgressService, cfg *config.Config) *RunnerService {
	return &RunnerService{
		ProgressService: progressService,
		Cfg:             cfg,
	}
}

// budget clamps the requested time budget into the configured window.
func (s *RunnerService) budget(requested int) time.Duration {
	ms := requested
	if ms <= 0 {
		ms = s.Cfg.Runner.DefaultBudgetMS
	}
	if ms > s.Cfg.Runner.MaxBudgetMS {
		ms = s.Cfg.Runner.MaxBudgetMS
	}
	return time.Duration(ms) * time.Millisecond
}

func (s *RunnerService) selectTests(problem *ProblemView, req *RunRequest) []TestView {
	tests := problem.Tests
	if req.Scope == "failed" && len(req.FailedIDs) > 0 {
		failed := make(map[string]bool, len(req.FailedIDs))
		for _, id := range req.FailedIDs {
			failed[id] = true
		}
		subset := make([]TestView, 0, len(tests))
		for _, t := range tests {
			if failed[t.ID] {
				subset = append(subset, t)
			}
		}
		tests = subset
	}

	if req.Shuffle {
		shuffled := make([]TestView, len(tests))
		copy(shuffled, tests)
		rand.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		tests = shuffled
	}

	return tests
}

// Run executes the submitted source against the problem's fixtures and
// records the caller's progress. A missing or broken function is an execution
// error, not a test failure; a test that throws fails alone and the rest
// still run. The time budget is checked between tests; a single test that
// blocks past twice the budget is interrupted at the VM level.
func (s *RunnerService) Run(userID string, problem *ProblemView, req *RunRequest) (*RunResult, error) {
	if len(req.Code) > s.Cfg.Runner.MaxCodeBytes {
		return nil, fmt.Errorf("code exceeds %d bytes", s.Cfg.Runner.MaxCodeBytes)
	}
	if problem.FunctionName == "" {
		return nil, errors.New("problem has no function name configured")
	}

	budget := s.budget(req.TimeoutMS)
	result := &RunResult{Results: []TestResult{}}

	vm := goja.New()
	watchdog := time.AfterFunc(2*budget, func() {
		vm.Interrupt("time limit exceeded")
	})
	defer watchdog.Stop()

	fn, buildErr := buildCallable(vm, req.Code, problem.FunctionName)
	if buildErr != nil {
		result.Status = RunExecutionError
		result.Error = buildErr.Error()
		monitoring.RunnerExecutions.WithLabelValues(RunExecutionError).Inc()

		// An attempt is an attempt even when the code does not evaluate.
		if err := s.ProgressService.Record(userID, problem.Slug, false, req.Code); err != nil {
			logger.Log.Error("failed to record progress", zap.Error(err), zap.String("slug", problem.Slug))
		}
		return result, nil
	}

	tests := s.selectTests(problem, req)
	passedAll := true
	start := time.Now()

	for _, tc := range tests {
		if time.Since(start) > budget {
			passedAll = false
			result.Results = append(result.Results, TestResult{
				TestID:   tc.ID,
				Passed:   false,
				Input:    tc.Input,
				Expected: tc.Expected,
				Error:    fmt.Sprintf("Превышен лимит %dms", budget.Milliseconds()),
			})
			continue
		}

		actual, callErr := invoke(vm, fn, tc.Input)
		if callErr != nil {
			passedAll = false
			result.Results = append(result.Results, TestResult{
				TestID:   tc.ID,
				Passed:   false,
				Input:    tc.Input,
				Expected: tc.Expected,
				Error:    callErr.Error(),
			})
			continue
		}

		passed := DeepEqualJSON(actual, tc.Expected)
		if !passed {
			passedAll = false
		}
		result.Results = append(result.Results, TestResult{
			TestID:   tc.ID,
			Passed:   passed,
			Input:    tc.Input,
			Expected: tc.Expected,
			Actual:   actual,
		})
	}

	result.PassedAll = passedAll && len(tests) > 0
	if result.PassedAll {
		result.Status = RunAllPassed
	} else {
		result.Status = RunSomeFailed
	}
	monitoring.RunnerExecutions.WithLabelValues(result.Status).Inc()

	if err := s.ProgressService.Record(userID, problem.Slug, result.PassedAll, req.Code); err != nil {
		logger.Log.Error("failed to record progress", zap.Error(err), zap.String("slug", problem.Slug))
	}

	return result, nil
}

// buildCallable evaluates the source and resolves the named function.
func buildCallable(vm *goja.Runtime, code, functionName string) (goja.Callable, error) {
	if _, err := vm.RunString(code); err != nil {
		return nil, fmt.Errorf("code did not evaluate: %v", err)
	}

	fnValue := vm.Get(functionName)
	if fnValue == nil || goja.IsUndefined(fnValue) || goja.IsNull(fnValue) {
		return nil, fmt.Errorf("функция %q не найдена", functionName)
	}

	fn, ok := goja.AssertFunction(fnValue)
	if !ok {
		return nil, fmt.Errorf("%q is not a function", functionName)
	}
	return fn, nil
}

// invoke calls fn with the fixture input array as its argument list and
// exports the result to plain Go values.
func invoke(vm *goja.Runtime, fn goja.Callable, input []any) (actual interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()

	args := make([]goja.Value, len(input))
	for i, arg := range input {
		args[i] = vm.ToValue(arg)
	}

	value, callErr := fn(goja.Undefined(), args...)
	if callErr != nil {
		var jsErr *goja.Exception
		if errors.As(callErr, &jsErr) {
			return nil, errors.New(jsErr.Error())
		}
		return nil, callErr
	}
	return value.Export(), nil
}

// DeepEqualJSON compares two values by their canonical JSON encoding, the
// documented equality for fixture grading. Map keys encode sorted, so object
// comparison is key-order-insensitive; values that cannot encode (NaN,
// functions) never compare equal.
func DeepEqualJSON(a, b interface{}) bool {
	aj, errA := json.Marshal(a)
	bj, errB := json.Marshal(b)
	if errA != nil || errB != nil {
		return false
	}
	return string(aj) == string(bj)
}

package run_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/mock"
	"github.com/toejough/primefactor"
	"github.com/toejough/primefactor/factor/run"
)

// mockFactorizer implements run.Factorizer for testing.
type mockFactorizer struct {
	mock.Mock
}

func (m *mockFactorizer) Factorize(n int) ([]int, error) {
	args := m.Called(n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]int), args.Error(1)
}

func noEnv(string) string { return "" }

func envOf(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestRun_TextOutput(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	var stdout, stderr bytes.Buffer

	err := run.Run([]string{"factor", "12", "1", "97"}, noEnv, primefactor.Factorizer{}, &stdout, &stderr)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(stdout.String()).To(Equal("12: 2 2 3\n1:\n97: 97\n"))
	g.Expect(stderr.String()).To(BeEmpty())
}

func TestRun_JSONOutput(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	var stdout, stderr bytes.Buffer

	err := run.Run([]string{"factor", "--format", "json", "1", "10"}, noEnv, primefactor.Factorizer{}, &stdout, &stderr)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(stdout.String()).To(MatchJSON(`[{"n":1,"factors":[]},{"n":10,"factors":[2,5]}]`))

	var decoded []map[string]any
	g.Expect(json.Unmarshal(stdout.Bytes(), &decoded)).To(Succeed())
	g.Expect(decoded).To(HaveLen(2))
}

// TestRun_FormatFromEnv verifies the environment supplies defaults and flags override them.
func TestRun_FormatFromEnv(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	env := envOf(map[string]string{run.EnvFormat: "JSON"})

	var stdout, stderr bytes.Buffer

	err := run.Run([]string{"factor", "4"}, env, primefactor.Factorizer{}, &stdout, &stderr)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(stdout.String()).To(MatchJSON(`[{"n":4,"factors":[2,2]}]`))

	stdout.Reset()

	err = run.Run([]string{"factor", "--format", "text", "4"}, env, primefactor.Factorizer{}, &stdout, &stderr)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(stdout.String()).To(Equal("4: 2 2\n"))
}

func TestRun_UnknownFormat(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	factorizer := &mockFactorizer{}

	var stdout, stderr bytes.Buffer

	err := run.Run([]string{"factor", "--format", "yaml", "4"}, noEnv, factorizer, &stdout, &stderr)
	g.Expect(err).To(MatchError(run.ErrUnknownFormat))
	g.Expect(stdout.String()).To(BeEmpty())
	factorizer.AssertNotCalled(t, "Factorize", mock.Anything)
}

// TestRun_CallsFactorizerInOrder verifies each argument is passed through once, in order.
func TestRun_CallsFactorizerInOrder(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	factorizer := &mockFactorizer{}
	first := factorizer.On("Factorize", 6).Return([]int{2, 3}, nil).Once()
	factorizer.On("Factorize", 35).Return([]int{5, 7}, nil).Once().NotBefore(first)

	var stdout, stderr bytes.Buffer

	err := run.Run([]string{"factor", "6", "35"}, noEnv, factorizer, &stdout, &stderr)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(stdout.String()).To(Equal("6: 2 3\n35: 5 7\n"))
	factorizer.AssertExpectations(t)
	factorizer.AssertNumberOfCalls(t, "Factorize", 2)
}

// TestRun_CapturesArguments verifies the parsed integers reach the factorizer.
func TestRun_CapturesArguments(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	var captured []int

	factorizer := &mockFactorizer{}
	factorizer.On("Factorize", mock.AnythingOfType("int")).
		Run(func(args mock.Arguments) { captured = append(captured, args.Int(0)) }).
		Return([]int{}, nil)

	var stdout, stderr bytes.Buffer

	err := run.Run([]string{"factor", "007", "+8", "1"}, noEnv, factorizer, &stdout, &stderr)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(captured).To(Equal([]int{7, 8, 1}))
}

// TestRun_FactorizerError verifies a failing input aborts the run without partial output.
func TestRun_FactorizerError(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	var stdout, stderr bytes.Buffer

	err := run.Run([]string{"factor", "12", "--", "-3"}, noEnv, primefactor.Factorizer{}, &stdout, &stderr)
	g.Expect(err).To(MatchError(primefactor.ErrInvalidArgument))
	g.Expect(err.Error()).To(ContainSubstring("-3"))
	g.Expect(stdout.String()).To(BeEmpty())
}

// TestRun_StubbedError verifies errors from the factorizer are wrapped, not replaced.
func TestRun_StubbedError(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	errBoom := errors.New("boom")

	factorizer := &mockFactorizer{}
	factorizer.On("Factorize", 9).Return(nil, errBoom)

	var stdout, stderr bytes.Buffer

	err := run.Run([]string{"factor", "9"}, noEnv, factorizer, &stdout, &stderr)
	g.Expect(err).To(MatchError(errBoom))
	g.Expect(err.Error()).To(Equal("failed to factorize 9: boom"))
	g.Expect(stdout.String()).To(BeEmpty())
}

func TestRun_InvalidNumber(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	factorizer := &mockFactorizer{}
	factorizer.On("Factorize", 4).Return([]int{2, 2}, nil)

	var stdout, stderr bytes.Buffer

	err := run.Run([]string{"factor", "4", "four"}, noEnv, factorizer, &stdout, &stderr)
	g.Expect(err).To(MatchError(run.ErrInvalidNumber))
	g.Expect(err.Error()).To(ContainSubstring(`"four"`))
	g.Expect(stdout.String()).To(BeEmpty())
}

func TestRun_MissingNumbers(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	var stdout, stderr bytes.Buffer

	err := run.Run([]string{"factor"}, noEnv, primefactor.Factorizer{}, &stdout, &stderr)
	g.Expect(err).To(MatchError(ContainSubstring("failed to parse arguments")))
}

func TestRun_Help(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	factorizer := &mockFactorizer{}

	var stdout, stderr bytes.Buffer

	err := run.Run([]string{"factor", "--help"}, noEnv, factorizer, &stdout, &stderr)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(stdout.String()).To(ContainSubstring("Usage: factor"))
	g.Expect(stdout.String()).To(ContainSubstring("--format"))
	factorizer.AssertNotCalled(t, "Factorize", mock.Anything)
}

// TestRun_DebugLogging verifies each factorization is logged at debug level.
func TestRun_DebugLogging(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	var stdout, stderr bytes.Buffer

	err := run.Run([]string{"factor", "--log-level", "DEBUG", "8"}, noEnv, primefactor.Factorizer{}, &stdout, &stderr)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(stderr.String()).To(ContainSubstring("level=DEBUG"))
	g.Expect(stderr.String()).To(ContainSubstring("msg=factorized"))
	g.Expect(stderr.String()).To(ContainSubstring("n=8"))
	g.Expect(stderr.String()).To(ContainSubstring("factors=\"[2 2 2]\""))
}

// TestRun_InvalidLogLevel verifies an unknown level warns and falls back to info.
func TestRun_InvalidLogLevel(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	env := envOf(map[string]string{run.EnvLogLevel: "loud"})

	var stdout, stderr bytes.Buffer

	err := run.Run([]string{"factor", "8"}, env, primefactor.Factorizer{}, &stdout, &stderr)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(stderr.String()).To(ContainSubstring("level=WARN"))
	g.Expect(stderr.String()).To(ContainSubstring("configured_level=loud"))
	g.Expect(stderr.String()).NotTo(ContainSubstring("msg=factorized"))
	g.Expect(stdout.String()).To(Equal("8: 2 2 2\n"))
}

func TestRunMain_Success(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	var stdout, stderr bytes.Buffer

	code := run.Main([]string{"factor", "15"}, noEnv, primefactor.Factorizer{}, &stdout, &stderr)
	g.Expect(code).To(Equal(0))
	g.Expect(stdout.String()).To(Equal("15: 3 5\n"))
	g.Expect(stderr.String()).To(BeEmpty())
}

// TestRunMain_Failure verifies errors exit 1 with an "Error: " line on stderr and nothing on stdout.
func TestRunMain_Failure(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	var stdout, stderr bytes.Buffer

	code := run.Main([]string{"factor", "--", "0"}, noEnv, primefactor.Factorizer{}, &stdout, &stderr)
	g.Expect(code).To(Equal(1))
	g.Expect(stdout.String()).To(BeEmpty())
	g.Expect(stderr.String()).To(HavePrefix("Error: failed to factorize 0: invalid argument"))
	g.Expect(stderr.String()).To(HaveSuffix("\n"))
}

func TestRunMain_Help(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	var stdout, stderr bytes.Buffer

	code := run.Main([]string{"factor", "-h"}, noEnv, primefactor.Factorizer{}, &stdout, &stderr)
	g.Expect(code).To(Equal(0))
	g.Expect(stdout.String()).To(ContainSubstring("Usage: factor"))
	g.Expect(stderr.String()).To(BeEmpty())
}

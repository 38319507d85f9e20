package usecase_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/mock"
	"github.com/trebuchet-org/ignite/internal/domain"
	"github.com/trebuchet-org/ignite/internal/domain/config"
	"github.com/trebuchet-org/ignite/internal/domain/models"
	"github.com/trebuchet-org/ignite/internal/usecase"
	"github.com/trebuchet-org/ignite/pkg/ignition"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testNetwork() *config.Network {
	return &config.Network{Name: "localhost", ChainID: 31337, RPCURL: "http://127.0.0.1:8545"}
}

func newRegistry(modules ...*ignition.Module) *ignition.Registry {
	reg := ignition.NewRegistry()
	if err := reg.Register(modules...); err != nil {
		panic(err)
	}
	return reg
}

// memStore is an in-memory DeploymentStateStore
type memStore struct {
	mu     sync.Mutex
	states map[string]*models.DeploymentState
	saves  int
}

func newMemStore() *memStore {
	return &memStore{states: make(map[string]*models.DeploymentState)}
}

func (s *memStore) Load(_ context.Context, id string) (*models.DeploymentState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.states[id]
	if !ok {
		return models.NewDeploymentState(id, 0), nil
	}
	return cloneState(state), nil
}

func (s *memStore) Save(_ context.Context, state *models.DeploymentState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	s.states[state.ID] = cloneState(state)
	return nil
}

func (s *memStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, id)
	return nil
}

func (s *memStore) List(context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.states))
	for id := range s.states {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func cloneState(state *models.DeploymentState) *models.DeploymentState {
	out := *state
	out.Modules = append([]string{}, state.Modules...)
	out.Futures = make(map[string]*models.FutureState, len(state.Futures))
	for id, f := range state.Futures {
		copied := *f
		out.Futures[id] = &copied
	}
	return &out
}

// fakeArtifacts serves artifacts from a map keyed by contract name
type fakeArtifacts map[string]*models.Artifact

func (a fakeArtifacts) GetArtifact(_ context.Context, name string) (*models.Artifact, error) {
	artifact, ok := a[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrArtifactNotFound, name)
	}
	return artifact, nil
}

func (a fakeArtifacts) ListArtifacts(context.Context) ([]*models.Artifact, error) {
	var out []*models.Artifact
	for _, artifact := range a {
		out = append(out, artifact)
	}
	return out, nil
}

func artifact(name string, libraries ...string) *models.Artifact {
	a := &models.Artifact{
		Format:       "hh-sol-artifact-1",
		ContractName: name,
		SourceName:   "contracts/" + name + ".sol",
		ABI:          []byte(`[]`),
		Bytecode:     "0x6080",
	}
	if len(libraries) > 0 {
		a.LinkReferences = map[string]map[string][]models.LinkReference{}
		for _, lib := range libraries {
			a.LinkReferences["contracts/"+lib+".sol"] = map[string][]models.LinkReference{
				lib: {{Start: 1, Length: 20}},
			}
		}
	}
	return a
}

// recordingEncoder records the resolved values it receives
type recordingEncoder struct {
	mu        sync.Mutex
	args      map[string][]any
	libraries map[string]map[string]common.Address
	failFor   map[string]error
}

func newRecordingEncoder() *recordingEncoder {
	return &recordingEncoder{
		args:      make(map[string][]any),
		libraries: make(map[string]map[string]common.Address),
		failFor:   make(map[string]error),
	}
}

func (e *recordingEncoder) EncodeConstructor(artifact *models.Artifact, args []any) ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.failFor[artifact.ContractName]; err != nil {
		return nil, err
	}
	e.args[artifact.ContractName] = args
	return []byte(fmt.Sprint(args)), nil
}

func (e *recordingEncoder) Link(artifact *models.Artifact, libraries map[string]common.Address) ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, name := range artifact.Libraries() {
		if _, ok := libraries[name]; !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrUnlinkedLibrary, name)
		}
	}
	e.libraries[artifact.ContractName] = libraries
	return []byte{0x60, 0x80}, nil
}

// fakeParameters returns fixed module parameters
type fakeParameters map[string]map[string]any

func (p fakeParameters) LoadParameters(context.Context, string) (map[string]map[string]any, error) {
	return p, nil
}

// MockDeployer is a mock implementation of ContractDeployer
type MockDeployer struct {
	mock.Mock
}

func (m *MockDeployer) Connect(ctx context.Context, network *config.Network) error {
	args := m.Called(ctx, network)
	return args.Error(0)
}

func (m *MockDeployer) Deploy(ctx context.Context, req usecase.DeployRequest) (*usecase.DeployReceipt, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.DeployReceipt), args.Error(1)
}

func receipt(addr string, nonce byte) *usecase.DeployReceipt {
	return &usecase.DeployReceipt{
		Address:     common.HexToAddress(addr),
		TxHash:      common.BytesToHash([]byte{nonce}),
		From:        common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"),
		BlockNumber: uint64(nonce),
		GasUsed:     21000,
	}
}

// recordingSink records progress stages
type recordingSink struct {
	mu     sync.Mutex
	stages []string
}

func (s *recordingSink) OnProgress(_ context.Context, event usecase.ProgressEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stages = append(s.stages, event.Stage)
}

func (s *recordingSink) Info(string)  {}
func (s *recordingSink) Error(string) {}

// MockFutureSelector is a mock implementation of FutureSelector
type MockFutureSelector struct {
	mock.Mock
}

func (m *MockFutureSelector) SelectFutures(ctx context.Context, futures []*models.FutureState, prompt string) ([]*models.FutureState, error) {
	args := m.Called(ctx, futures, prompt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.FutureState), args.Error(1)
}

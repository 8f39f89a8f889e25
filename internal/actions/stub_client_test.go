package actions

import (
	"context"

	"github.com/temirov/branchops/internal/gitlab"
)

type stubTagAddition struct {
	projectID int
	tagName   string
	commitSHA string
}

type stubTagRemoval struct {
	projectID int
	tagName   string
}

// stubResourceClient scripts per-project responses and records the calls the
// executors make.
type stubResourceClient struct {
	hasDiffs         map[int]bool
	diffsErrors      map[int]error
	createResults    map[int]gitlab.CreateMergeRequestResult
	createErrors     map[int]error
	infoQueues       map[int][]gitlab.MergeRequestDetails
	infoErrors       map[int]error
	infoCallCounts   map[int]int
	mergeOutcomes    map[int]gitlab.MergeOutcome
	mergeErrors      map[int]error
	mergeCallCounts  map[int]int
	hasBranch        map[int]bool
	branchErrors     map[int]error
	branchInfos      map[int]gitlab.Branch
	branchInfoErrors map[int]error
	tags             map[int]*gitlab.Tag
	tagErrors        map[int]error
	addTagErrors     map[int]error
	removeTagErrors  map[int]error
	addedTags        []stubTagAddition
	removedTags      []stubTagRemoval

	afterCall func(method string, projectID int)
}

func newStubResourceClient() *stubResourceClient {
	return &stubResourceClient{
		hasDiffs:         map[int]bool{},
		diffsErrors:      map[int]error{},
		createResults:    map[int]gitlab.CreateMergeRequestResult{},
		createErrors:     map[int]error{},
		infoQueues:       map[int][]gitlab.MergeRequestDetails{},
		infoErrors:       map[int]error{},
		infoCallCounts:   map[int]int{},
		mergeOutcomes:    map[int]gitlab.MergeOutcome{},
		mergeErrors:      map[int]error{},
		mergeCallCounts:  map[int]int{},
		hasBranch:        map[int]bool{},
		branchErrors:     map[int]error{},
		branchInfos:      map[int]gitlab.Branch{},
		branchInfoErrors: map[int]error{},
		tags:             map[int]*gitlab.Tag{},
		tagErrors:        map[int]error{},
		addTagErrors:     map[int]error{},
		removeTagErrors:  map[int]error{},
	}
}

func (stub *stubResourceClient) notify(method string, projectID int) {
	if stub.afterCall != nil {
		stub.afterCall(method, projectID)
	}
}

func (stub *stubResourceClient) CheckHasDiffs(_ context.Context, projectID int, _ string, _ string) (bool, error) {
	defer stub.notify("CheckHasDiffs", projectID)
	if stubbedError := stub.diffsErrors[projectID]; stubbedError != nil {
		return false, stubbedError
	}
	return stub.hasDiffs[projectID], nil
}

func (stub *stubResourceClient) CreateMergeRequest(_ context.Context, projectID int, _ string, _ string, _ string) (gitlab.CreateMergeRequestResult, error) {
	defer stub.notify("CreateMergeRequest", projectID)
	if stubbedError := stub.createErrors[projectID]; stubbedError != nil {
		return gitlab.CreateMergeRequestResult{}, stubbedError
	}
	return stub.createResults[projectID], nil
}

func (stub *stubResourceClient) GetMergeRequestInfo(_ context.Context, projectID int, _ int) (gitlab.MergeRequestDetails, error) {
	defer stub.notify("GetMergeRequestInfo", projectID)
	stub.infoCallCounts[projectID]++
	if stubbedError := stub.infoErrors[projectID]; stubbedError != nil {
		return gitlab.MergeRequestDetails{}, stubbedError
	}

	queue := stub.infoQueues[projectID]
	if len(queue) == 0 {
		return gitlab.MergeRequestDetails{}, nil
	}
	if len(queue) == 1 {
		return queue[0], nil
	}
	stub.infoQueues[projectID] = queue[1:]
	return queue[0], nil
}

func (stub *stubResourceClient) Merge(_ context.Context, projectID int, _ int) (gitlab.MergeOutcome, error) {
	defer stub.notify("Merge", projectID)
	stub.mergeCallCounts[projectID]++
	if stubbedError := stub.mergeErrors[projectID]; stubbedError != nil {
		return gitlab.MergeOutcome{}, stubbedError
	}
	return stub.mergeOutcomes[projectID], nil
}

func (stub *stubResourceClient) CheckHasBranch(_ context.Context, projectID int, _ string) (bool, error) {
	defer stub.notify("CheckHasBranch", projectID)
	if stubbedError := stub.branchErrors[projectID]; stubbedError != nil {
		return false, stubbedError
	}
	return stub.hasBranch[projectID], nil
}

func (stub *stubResourceClient) GetBranchInfo(_ context.Context, projectID int, _ string) (gitlab.Branch, error) {
	defer stub.notify("GetBranchInfo", projectID)
	if stubbedError := stub.branchInfoErrors[projectID]; stubbedError != nil {
		return gitlab.Branch{}, stubbedError
	}
	return stub.branchInfos[projectID], nil
}

func (stub *stubResourceClient) GetTag(_ context.Context, projectID int, _ string) (*gitlab.Tag, error) {
	defer stub.notify("GetTag", projectID)
	if stubbedError := stub.tagErrors[projectID]; stubbedError != nil {
		return nil, stubbedError
	}
	return stub.tags[projectID], nil
}

func (stub *stubResourceClient) AddTag(_ context.Context, projectID int, tagName string, commitSHA string) (gitlab.Tag, error) {
	defer stub.notify("AddTag", projectID)
	if stubbedError := stub.addTagErrors[projectID]; stubbedError != nil {
		return gitlab.Tag{}, stubbedError
	}
	stub.addedTags = append(stub.addedTags, stubTagAddition{projectID: projectID, tagName: tagName, commitSHA: commitSHA})
	return gitlab.Tag{ProjectID: projectID, Name: tagName, CommitSHA: commitSHA, CommitLink: stub.branchInfos[projectID].CommitLink}, nil
}

func (stub *stubResourceClient) RemoveTag(_ context.Context, projectID int, tagName string) error {
	defer stub.notify("RemoveTag", projectID)
	if stubbedError := stub.removeTagErrors[projectID]; stubbedError != nil {
		return stubbedError
	}
	stub.removedTags = append(stub.removedTags, stubTagRemoval{projectID: projectID, tagName: tagName})
	return nil
}

// newTestEngine builds an engine with zeroed pacing so tests run instantly.
func newTestEngine(stub *stubResourceClient) *Engine {
	engine, engineError := NewEngine(EngineDependencies{
		Client: stub,
		Delays: &Delays{WarmUp: 0, MergeSettle: 0, RetryInterval: 0, RetryAttempts: 3},
	})
	if engineError != nil {
		panic(engineError)
	}
	return engine
}

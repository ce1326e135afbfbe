package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path"
	"time"

	"github.com/google/go-github/v63/github"
	"gopkg.in/yaml.v3"
	"k8s.io/klog/v2"

	"bench-harness/types"
)

const (
	defaultRepoName   = "results"
	defaultOrgName    = "bench-harness"
	defaultBranchName = "main"
)

func NewBackend() *Backend {
	return &Backend{
		Name:       "github",
		Repo:       os.Getenv("GITHUB_REPO"),
		Org:        os.Getenv("GITHUB_ORG"),
		Token:      os.Getenv("GITHUB_TOKEN"),
		branchName: os.Getenv("GITHUB_BRANCH"),
	}
}

type Backend struct {
	Name  string
	Org   string
	Repo  string
	Token string

	client     *github.Client
	user       *github.User
	branch     *github.Branch
	branchName string
}

func (b *Backend) PreCmd(ctx context.Context, run string) error {
	if b.Token == "" {
		return errors.New("GITHUB_TOKEN is required")
	}

	klog.V(4).Infof("[github backend] opts: %+v", b)
	if b.Org == "" {
		klog.Infof("GITHUB_ORG is not set, defaulting to %s", defaultOrgName)
		b.Org = defaultOrgName
	}

	if b.Repo == "" {
		klog.Infof("GITHUB_REPO is not set, defaulting to %s", defaultRepoName)
		b.Repo = defaultRepoName
	}

	if b.branchName == "" {
		klog.Infof("GITHUB_BRANCH is not set, defaulted to %s", defaultBranchName)
		b.branchName = defaultBranchName
	}

	klog.V(4).Infof("[github backend] trying to validate results repo %s/%s for run %s", b.Org, b.Repo, run)

	client, user, err := authenticate(ctx, b.Token, b.Org, b.Repo)
	if err != nil {
		return fmt.Errorf("[github backend] failed to authenticate to repo %s/%s: %v", b.Org, b.Repo, err)
	}
	b.client = client
	b.user = user

	branch, httpResp, err := b.client.Repositories.GetBranch(ctx, b.Org, b.Repo, b.branchName, 2)
	if err != nil && (httpResp == nil || httpResp.StatusCode != http.StatusNotFound) {
		return fmt.Errorf("[github backend] unexpected error when checking for branch %s: %v", b.branchName, err)
	}
	b.branch = branch

	klog.Infof("[github backend] successfully authenticated to results repo %s/%s using branch %s", b.Org, b.Repo, b.branchName)

	return nil
}

func (b *Backend) Read(ctx context.Context, run string) (*types.Results, error) {
	remotePath := path.Join("runs", run, "results.yaml")
	klog.V(4).Infof("[github backend] trying to read results file %s from branch %s in repo %s/%s", remotePath, b.branchName, b.Org, b.Repo)

	if b.branch == nil {
		return nil, fmt.Errorf("[github backend] branch %s may not exist in repo %s/%s", b.branchName, b.Org, b.Repo)
	}

	file, _, _, err := b.client.Repositories.GetContents(ctx, b.Org, b.Repo, remotePath, &github.RepositoryContentGetOptions{
		Ref: b.branchName,
	})
	if err != nil {
		return nil, err
	}

	raw, err := file.GetContent()
	if err != nil {
		return nil, err
	}

	var results types.Results
	if err := yaml.Unmarshal([]byte(raw), &results); err != nil {
		return nil, err
	}

	return &results, nil
}

func (b *Backend) Write(ctx context.Context, run string, results *types.Results) error {
	raw, err := yaml.Marshal(results)
	if err != nil {
		return err
	}
	remotePath := path.Join("runs", run, "results.yaml")
	if err := b.uploadFile(ctx, string(raw), remotePath, run); err != nil {
		return fmt.Errorf("failed to write run %s results: %v", run, err)
	}
	return nil
}

func (b *Backend) Delete(ctx context.Context, run string) error {
	remotePath := path.Join("runs", run, "results.yaml")
	klog.V(4).Infof("[github backend] trying to delete results file %s in remote repo %s/%s", remotePath, b.Org, b.Repo)

	contents, _, httpResp, err := b.client.Repositories.GetContents(ctx, b.Org, b.Repo, remotePath, &github.RepositoryContentGetOptions{
		Ref: b.branchName,
	})
	if err != nil {
		if httpResp != nil && httpResp.StatusCode == http.StatusNotFound {
			return nil
		}
		return err
	}

	_, _, err = b.client.Repositories.DeleteFile(ctx, b.Org, b.Repo, remotePath, &github.RepositoryContentFileOptions{
		SHA:    contents.SHA,
		Branch: PointerTo(b.branchName),
		Committer: &github.CommitAuthor{
			Date:  &github.Timestamp{Time: time.Now()},
			Name:  b.user.Name,
			Email: b.user.Email,
			Login: b.user.Login,
		},
		Message: PointerTo(fmt.Sprintf("deleting results for run %s", run)),
	})
	if err != nil {
		return err
	}

	klog.Infof("[github backend] deleted results for run %s from branch %s in github repo %s/%s", run, b.branchName, b.Org, b.Repo)

	return nil
}

func (b *Backend) uploadFile(ctx context.Context, fileContent string, remotePath string, run string) error {
	// need the existing contents for the SHA
	contents, _, httpResp, err := b.client.Repositories.GetContents(ctx, b.Org, b.Repo, remotePath, &github.RepositoryContentGetOptions{
		Ref: b.branchName,
	})
	if err != nil {
		if httpResp == nil {
			return err
		}
		switch httpResp.StatusCode {
		case http.StatusNotFound, http.StatusOK, http.StatusFound, http.StatusNotModified:
			// expected
		case http.StatusForbidden:
			return fmt.Errorf("failed to upload results file %s due to permissions error: %w", remotePath, err)
		default:
			return err
		}
	}

	committer := &github.CommitAuthor{
		Date:  &github.Timestamp{Time: time.Now()},
		Name:  b.user.Name,
		Email: b.user.Email,
		Login: b.user.Login,
	}

	switch {
	case httpResp != nil && httpResp.StatusCode == http.StatusNotFound:
		_, _, err = b.client.Repositories.CreateFile(ctx, b.Org, b.Repo, remotePath, &github.RepositoryContentFileOptions{
			Content:   []byte(fileContent),
			Branch:    PointerTo(b.branchName),
			Committer: committer,
			Message:   PointerTo(fmt.Sprintf("recording results for run %s", run)),
		})
	default:
		_, _, err = b.client.Repositories.UpdateFile(ctx, b.Org, b.Repo, remotePath, &github.RepositoryContentFileOptions{
			Content:   []byte(fileContent),
			Branch:    PointerTo(b.branchName),
			Committer: committer,
			SHA:       contents.SHA,
			Message:   PointerTo(fmt.Sprintf("updating results for run %s", run)),
		})
	}
	return err
}

func authenticate(ctx context.Context, token, org, repo string) (*github.Client, *github.User, error) {
	client := github.NewClient(nil).WithAuthToken(token)

	// fetch the user to allow easy access to committer info (name, email, login)
	user, _, err := client.Users.Get(ctx, org)
	if err != nil {
		return nil, nil, err
	}

	// validate we have access to the repository
	_, r, err := client.Repositories.Get(ctx, org, repo)
	if err != nil || r.StatusCode != http.StatusOK {
		return nil, nil, err
	}

	return client, user, nil
}

func PointerTo[T any](s T) *T {
	return &s
}

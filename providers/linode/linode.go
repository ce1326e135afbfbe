// Package linode provisions benchmark hosts as Linode instances booted from
// the generated cloud-config document.
package linode

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/linode/linodego"
	"k8s.io/klog/v2"

	"bench-harness/client"
	"bench-harness/types"
)

const (
	defaultRegion = "us-east"
	defaultType   = "g6-standard-2"
	defaultImage  = "linode/ubuntu22.04"
)

// Client is the subset of linodego calls the provisioner makes, so they can
// be mocked out for testing.
type Client interface {
	CreateInstance(ctx context.Context, opts linodego.InstanceCreateOptions) (*linodego.Instance, error)
	ListInstances(ctx context.Context, opts *linodego.ListOptions) ([]linodego.Instance, error)
	DeleteInstance(ctx context.Context, linodeID int) error
}

// Provisioner creates and deletes the instances that run benchmarked
// frameworks. Every instance carries a language-framework tag so later
// operations can find it again.
type Provisioner struct {
	Client         Client
	Region         string
	Type           string
	Image          string
	AuthorizedKeys string
}

// NewProvisioner builds a provisioner from the environment: LINODE_TOKEN is
// required, LINODE_REGION, LINODE_TYPE, LINODE_IMAGE and AUTHORIZED_KEYS
// override the defaults.
func NewProvisioner(ctx context.Context) (*Provisioner, error) {
	token := os.Getenv("LINODE_TOKEN")
	if token == "" {
		return nil, errors.New("LINODE_TOKEN env variable is required")
	}
	apiClient := client.Linode(ctx, token)
	return &Provisioner{
		Client:         &apiClient,
		Region:         envDefault("LINODE_REGION", defaultRegion),
		Type:           envDefault("LINODE_TYPE", defaultType),
		Image:          envDefault("LINODE_IMAGE", defaultImage),
		AuthorizedKeys: os.Getenv("AUTHORIZED_KEYS"),
	}, nil
}

// Provision creates the instance for one target with the cloud-config
// document as its user data. It refuses to create a second instance while
// one tagged for the target still exists.
func (p *Provisioner) Provision(ctx context.Context, target types.Target, userData []byte) (*linodego.Instance, error) {
	existing, err := p.tagged(ctx, target)
	if err != nil {
		return nil, err
	}
	if len(existing) != 0 {
		return nil, fmt.Errorf("instance %s already exists for %s", existing[0].Label, target.Name())
	}

	createOptions := linodego.InstanceCreateOptions{
		Label:    Tag(target),
		Image:    p.Image,
		Region:   p.Region,
		Type:     p.Type,
		RootPass: uuid.NewString(),
		Tags:     []string{Tag(target)},
		Metadata: &linodego.InstanceMetadataOptions{UserData: base64.StdEncoding.EncodeToString(userData)},
	}
	if p.AuthorizedKeys != "" {
		createOptions.AuthorizedKeys = []string{p.AuthorizedKeys}
	}

	instance, err := p.Client.CreateInstance(ctx, createOptions)
	if err != nil {
		return nil, fmt.Errorf("unable to create Instance: %v", err)
	}
	klog.Infof("Created Linode Instance: %v", instance.Label)
	return instance, nil
}

// Deprovision deletes every instance tagged for the target.
func (p *Provisioner) Deprovision(ctx context.Context, target types.Target) error {
	instances, err := p.tagged(ctx, target)
	if err != nil {
		return err
	}
	if len(instances) == 0 {
		klog.Infof("No instances found for %s", target.Name())
		return nil
	}
	for _, instance := range instances {
		if err := p.Client.DeleteInstance(ctx, instance.ID); err != nil {
			return fmt.Errorf("could not delete Instance %s: %v", instance.Label, err)
		}
		klog.Infof("Deleted Instance %s", instance.Label)
	}
	return nil
}

func (p *Provisioner) tagged(ctx context.Context, target types.Target) ([]linodego.Instance, error) {
	filter, err := json.Marshal(map[string]string{"tags": Tag(target)})
	if err != nil {
		return nil, err
	}
	instances, err := p.Client.ListInstances(ctx, &linodego.ListOptions{Filter: string(filter)})
	if err != nil {
		return nil, fmt.Errorf("could not list instances: %v", err)
	}
	return instances, nil
}

// Tag is the instance tag and label for one target. Linode labels cannot
// carry slashes, so the path separator becomes a dash.
func Tag(target types.Target) string {
	return fmt.Sprintf("%s-%s", target.Language, target.Framework)
}

func envDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

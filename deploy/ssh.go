package deploy

import (
	"io"
	"os"

	sshclient "github.com/helloyi/go-sshclient"
	"github.com/pkg/sftp"
)

// SSHDialer opens SSH sessions with private key auth.
type SSHDialer struct {
	Addr    string
	User    string
	KeyPath string
}

func (d SSHDialer) Runner() (Runner, error) {
	client, err := sshclient.DialWithKey(d.Addr, d.User, d.KeyPath)
	if err != nil {
		return nil, err
	}
	return sshRunner{client: client}, nil
}

func (d SSHDialer) Copier() (Copier, error) {
	client, err := sshclient.DialWithKey(d.Addr, d.User, d.KeyPath)
	if err != nil {
		return nil, err
	}
	ftp, err := sftp.NewClient(client.UnderlyingClient())
	if err != nil {
		client.Close()
		return nil, err
	}
	return sftpCopier{client: client, ftp: ftp}, nil
}

type sshRunner struct {
	client *sshclient.Client
}

func (r sshRunner) Run(command string) (string, error) {
	out, err := r.client.Cmd(command).Output()
	return string(out), err
}

func (r sshRunner) Close() error {
	return r.client.Close()
}

type sftpCopier struct {
	client *sshclient.Client
	ftp    *sftp.Client
}

func (c sftpCopier) Put(local, remote string) error {
	src, err := os.Open(local)
	if err != nil {
		return err
	}
	defer src.Close()
	dst, err := c.ftp.Create(remote)
	if err != nil {
		return err
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		return err
	}
	info, err := src.Stat()
	if err != nil {
		return err
	}
	return c.ftp.Chmod(remote, info.Mode().Perm())
}

func (c sftpCopier) Close() error {
	c.ftp.Close()
	return c.client.Close()
}

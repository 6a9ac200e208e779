package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"

	"silabo/internal/config"
	"silabo/internal/logging"
)

// RemoteStore reads and writes syllabus documents on an SFTP server. Each
// operation dials a fresh session; the daemon's access pattern is sparse
// enough that holding connections open is not worth the reconnect logic.
type RemoteStore struct {
	cfg    config.Storage
	logger *slog.Logger
}

// NewRemoteStore builds an SFTP-backed document store.
func NewRemoteStore(cfg config.Storage, logger *slog.Logger) *RemoteStore {
	return &RemoteStore{cfg: cfg, logger: logging.NewComponentLogger(logger, "storage")}
}

// Fetch downloads the remote document at remotePath, relative to the
// configured remote directory.
func (r *RemoteStore) Fetch(ctx context.Context, remotePath string) ([]byte, error) {
	client, closeAll, err := r.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer closeAll()

	full := path.Join(r.cfg.RemoteDir, remotePath)
	file, err := client.Open(full)
	if err != nil {
		return nil, fmt.Errorf("sftp open %s: %w", full, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("sftp read %s: %w", full, err)
	}
	r.logger.Debug("fetched remote document",
		logging.String("remote_path", full), logging.Int("bytes", len(data)))
	return data, nil
}

// Upload copies a local document to remoteName under the configured remote
// directory, creating it as needed.
func (r *RemoteStore) Upload(ctx context.Context, localPath, remoteName string) error {
	client, closeAll, err := r.connect(ctx)
	if err != nil {
		return err
	}
	defer closeAll()

	if err := client.MkdirAll(r.cfg.RemoteDir); err != nil {
		return fmt.Errorf("sftp mkdir %s: %w", r.cfg.RemoteDir, err)
	}

	src, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("open local document: %w", err)
	}
	defer src.Close()

	full := path.Join(r.cfg.RemoteDir, remoteName)
	dst, err := client.Create(full)
	if err != nil {
		return fmt.Errorf("sftp create %s: %w", full, err)
	}
	defer dst.Close()

	written, err := io.Copy(dst, src)
	if err != nil {
		return fmt.Errorf("sftp upload %s: %w", full, err)
	}
	r.logger.Info("uploaded document",
		logging.String("remote_path", full), logging.Int64("bytes", written))
	return nil
}

func (r *RemoteStore) connect(ctx context.Context) (*sftp.Client, func(), error) {
	sshCfg, err := r.sshConfig()
	if err != nil {
		return nil, nil, err
	}

	addr := fmt.Sprintf("%s:%d", r.cfg.Host, r.cfg.Port)
	conn, err := dialDetached(ctx, func() (io.Closer, error) {
		client, err := ssh.Dial("tcp", addr, sshCfg)
		if err != nil {
			return nil, err
		}
		return client, nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("sftp dial %s: %w", addr, err)
	}
	sshClient := conn.(*ssh.Client)

	client, err := sftp.NewClient(sshClient)
	if err != nil {
		_ = sshClient.Close()
		return nil, nil, fmt.Errorf("sftp session: %w", err)
	}
	closeAll := func() {
		_ = client.Close()
		_ = sshClient.Close()
	}
	return client, closeAll, nil
}

// dialDetached runs dial on its own goroutine so a cancelled context cannot
// strand the caller mid-handshake. When cancellation wins the race, the
// goroutine closes whatever connection the dial still produced.
func dialDetached(ctx context.Context, dial func() (io.Closer, error)) (io.Closer, error) {
	type dialResult struct {
		conn io.Closer
		err  error
	}
	ch := make(chan dialResult)
	go func() {
		conn, err := dial()
		select {
		case ch <- dialResult{conn: conn, err: err}:
		case <-ctx.Done():
			if conn != nil {
				_ = conn.Close()
			}
		}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case result := <-ch:
		return result.conn, result.err
	}
}

func (r *RemoteStore) sshConfig() (*ssh.ClientConfig, error) {
	keyData, err := os.ReadFile(r.cfg.KeyPath)
	if err != nil {
		return nil, fmt.Errorf("read ssh key: %w", err)
	}
	signer, err := ssh.ParsePrivateKey(keyData)
	if err != nil {
		return nil, fmt.Errorf("parse ssh key: %w", err)
	}

	hostKeyCallback := ssh.InsecureIgnoreHostKey()
	if r.cfg.KnownHostsPath != "" {
		hostKeyCallback, err = knownhosts.New(r.cfg.KnownHostsPath)
		if err != nil {
			return nil, fmt.Errorf("load known hosts: %w", err)
		}
	}

	timeout := time.Duration(r.cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &ssh.ClientConfig{
		User:            r.cfg.User,
		Auth:            []ssh.AuthMethod{ssh.PublicKeys(signer)},
		HostKeyCallback: hostKeyCallback,
		Timeout:         timeout,
	}, nil
}

package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"net/textproto"
	"path"
	"time"

	"github.com/jlaffaye/ftp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// FTPConfig configures the FTP storage backend.
type FTPConfig struct {
	Host     string // host or host:port, port defaults to 21
	User     string
	Password string
	Timeout  time.Duration
}

// ftpClient implements Client over plain FTP. File IDs are full remote paths.
// Each operation dials a fresh connection; FTP control connections are cheap
// and long-lived ones go stale behind NATs.
type ftpClient struct {
	cfg FTPConfig
}

// NewFTP creates an FTP storage client.
func NewFTP(cfg FTPConfig) Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if _, _, err := net.SplitHostPort(cfg.Host); err != nil {
		cfg.Host = net.JoinHostPort(cfg.Host, "21")
	}
	return &ftpClient{cfg: cfg}
}

func (c *ftpClient) connect(ctx context.Context) (*ftp.ServerConn, error) {
	conn, err := ftp.Dial(c.cfg.Host,
		ftp.DialWithTimeout(c.cfg.Timeout),
		ftp.DialWithContext(ctx),
	)
	if err != nil {
		return nil, eris.Wrapf(err, "ftp: dial %s", c.cfg.Host)
	}
	if err := conn.Login(c.cfg.User, c.cfg.Password); err != nil {
		_ = conn.Quit()
		return nil, eris.Wrap(err, "ftp: login")
	}
	return conn, nil
}

func (c *ftpClient) ListFiles(ctx context.Context, folderPath string) ([]FileMetadata, error) {
	conn, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer quit(conn)

	entries, err := conn.List(folderPath)
	if err != nil {
		return nil, eris.Wrapf(err, "ftp: list %s", folderPath)
	}

	var files []FileMetadata
	for _, e := range entries {
		if e.Type != ftp.EntryTypeFile {
			continue
		}
		files = append(files, FileMetadata{
			ID:       path.Join(folderPath, e.Name),
			Name:     e.Name,
			Size:     int64(e.Size),
			Modified: e.Time,
		})
	}
	return files, nil
}

func (c *ftpClient) DownloadFile(ctx context.Context, id string) ([]byte, error) {
	conn, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer quit(conn)

	resp, err := conn.Retr(id)
	if err != nil {
		return nil, eris.Wrapf(err, "ftp: retr %s", id)
	}
	defer resp.Close()

	data, err := io.ReadAll(resp)
	if err != nil {
		return nil, eris.Wrapf(err, "ftp: read %s", id)
	}
	return data, nil
}

func (c *ftpClient) UploadFile(ctx context.Context, data []byte, folderPath, filename string) (string, error) {
	conn, err := c.connect(ctx)
	if err != nil {
		return "", err
	}
	defer quit(conn)

	remote := path.Join(folderPath, filename)
	if err := conn.Stor(remote, bytes.NewReader(data)); err != nil {
		return "", eris.Wrapf(err, "ftp: stor %s", remote)
	}
	return remote, nil
}

func (c *ftpClient) DeleteFile(ctx context.Context, id string) error {
	conn, err := c.connect(ctx)
	if err != nil {
		return err
	}
	defer quit(conn)

	if err := conn.Delete(id); err != nil {
		var proto *textproto.Error
		if errors.As(err, &proto) && proto.Code == ftp.StatusFileUnavailable {
			return nil // already gone
		}
		return eris.Wrapf(err, "ftp: delete %s", id)
	}
	return nil
}

func quit(conn *ftp.ServerConn) {
	if err := conn.Quit(); err != nil {
		zap.L().Debug("ftp: quit", zap.Error(err))
	}
}

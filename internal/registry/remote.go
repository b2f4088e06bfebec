package registry

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vhvplatform/react-framework-sub001/internal/errors"
	"github.com/vhvplatform/react-framework-sub001/internal/templates"
)

// S3API is the subset of *s3.Client the mirror uses.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// S3Options configures NewS3Client.
type S3Options struct {
	Region string

	// Endpoint overrides the AWS endpoint, e.g. a MinIO server. Path-style
	// addressing is used when it is set.
	Endpoint string

	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
}

// NewS3Client builds an S3 client with static credentials.
func NewS3Client(opts S3Options) *s3.Client {
	creds := aws.Credentials{
		AccessKeyID:     opts.AccessKeyID,
		SecretAccessKey: opts.SecretAccessKey,
		SessionToken:    opts.SessionToken,
		Source:          "vhv",
	}
	o := s3.Options{
		Region: opts.Region,
		Credentials: aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
			return creds, nil
		}),
	}
	if opts.Endpoint != "" {
		o.BaseEndpoint = aws.String(opts.Endpoint)
		o.UsePathStyle = true
	}
	return s3.New(o)
}

// Remote mirrors registry templates to an S3 bucket. A template is stored
// under <prefix>/<name>/ with the same layout as on disk.
type Remote struct {
	reg    *Registry
	client S3API
	bucket string
	prefix string
}

// NewRemote returns a mirror of reg in bucket under prefix.
func NewRemote(reg *Registry, client S3API, bucket, prefix string) *Remote {
	return &Remote{
		reg:    reg,
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
	}
}

func (m *Remote) key(parts ...string) string {
	return path.Join(append([]string{m.prefix}, parts...)...)
}

func remoteErr(op, key string, err error) error {
	return errors.New("E406").WithDetail(fmt.Sprintf("%s %s", op, key)).Wrap(err)
}

// Push uploads every file of the template called name and returns how many
// were sent. The config file goes last, so an interrupted push never looks
// like a complete template to RemoteList or Pull.
func (m *Remote) Push(ctx context.Context, name string) (int, error) {
	tmpl, err := m.reg.Get(name)
	if err != nil {
		return 0, err
	}
	root := tmpl.Dir()

	var files []string
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		if rel != "." && templates.IsExcluded(rel) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() && rel != templates.ConfigFileName {
			files = append(files, filepath.ToSlash(rel))
		}
		return nil
	})
	if err != nil {
		return 0, errors.New("E404").WithPath(root).Wrap(err)
	}
	sort.Strings(files)
	files = append(files, templates.ConfigFileName)

	for _, rel := range files {
		if err := m.upload(ctx, filepath.Join(root, filepath.FromSlash(rel)), m.key(name, rel)); err != nil {
			return 0, err
		}
	}
	return len(files), nil
}

func (m *Remote) upload(ctx context.Context, file, key string) error {
	f, err := os.Open(file)
	if err != nil {
		return errors.New("E404").WithPath(file).Wrap(err)
	}
	defer f.Close()

	_, err = m.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(m.bucket),
		Key:    aws.String(key),
		Body:   f,
	})
	if err != nil {
		return remoteErr("put", key, err)
	}
	return nil
}

// Pull downloads the template called name into the registry. Objects land
// in a hidden sibling directory that is renamed into place once complete,
// so a failed pull leaves no template behind. Pull refuses to replace an
// existing local template.
func (m *Remote) Pull(ctx context.Context, name string) (*templates.Template, error) {
	if err := templates.ValidateName(name); err != nil {
		return nil, err
	}
	if m.reg.HasTemplate(name) {
		return nil, errors.New("E202").
			WithDetail(name).
			WithSuggestion("Remove the local template first")
	}

	keys, err := m.listKeys(ctx, m.key(name)+"/")
	if err != nil {
		return nil, err
	}
	base := m.key(name) + "/"
	hasConfig := false
	for _, k := range keys {
		if strings.TrimPrefix(k, base) == templates.ConfigFileName {
			hasConfig = true
		}
	}
	if !hasConfig {
		return nil, errors.New("E103").
			WithDetail("no remote template " + name).
			WithSuggestion("Run 'vhv remote list' to see remote templates")
	}

	if err := os.MkdirAll(m.reg.Dir(), 0755); err != nil {
		return nil, errors.New("E401").WithPath(m.reg.Dir()).Wrap(err)
	}
	staging, err := os.MkdirTemp(m.reg.Dir(), "."+name+".pull-")
	if err != nil {
		return nil, errors.New("E401").WithPath(m.reg.Dir()).Wrap(err)
	}
	committed := false
	defer func() {
		if !committed {
			os.RemoveAll(staging)
		}
	}()

	for _, k := range keys {
		rel := strings.TrimPrefix(k, base)
		if rel == "" || strings.HasSuffix(rel, "/") {
			continue
		}
		if !fs.ValidPath(rel) || templates.IsExcluded(rel) {
			continue
		}
		if err := m.download(ctx, k, filepath.Join(staging, filepath.FromSlash(rel))); err != nil {
			return nil, err
		}
	}

	if _, err := templates.Load(staging); err != nil {
		return nil, err
	}
	dst := m.reg.Path(name)
	if err := os.Rename(staging, dst); err != nil {
		return nil, errors.New("E402").WithPath(dst).Wrap(err)
	}
	committed = true
	return templates.Load(dst)
}

func (m *Remote) download(ctx context.Context, key, dst string) error {
	out, err := m.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(m.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return remoteErr("get", key, err)
	}
	defer out.Body.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return errors.New("E401").WithPath(filepath.Dir(dst)).Wrap(err)
	}
	f, err := os.Create(dst)
	if err != nil {
		return errors.New("E402").WithPath(dst).Wrap(err)
	}
	if _, err := io.Copy(f, out.Body); err != nil {
		f.Close()
		return remoteErr("read", key, err)
	}
	if err := f.Close(); err != nil {
		return errors.New("E402").WithPath(dst).Wrap(err)
	}
	return nil
}

// RemoteList returns the sorted names of the complete templates in the
// bucket.
func (m *Remote) RemoteList(ctx context.Context) ([]string, error) {
	prefix := ""
	if m.prefix != "" {
		prefix = m.prefix + "/"
	}
	keys, err := m.listKeys(ctx, prefix)
	if err != nil {
		return nil, err
	}

	names := []string{}
	for _, k := range keys {
		name, file, ok := strings.Cut(strings.TrimPrefix(k, prefix), "/")
		if ok && file == templates.ConfigFileName && templates.ValidateName(name) == nil {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (m *Remote) listKeys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	p := s3.NewListObjectsV2Paginator(m.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(m.bucket),
		Prefix: aws.String(prefix),
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, remoteErr("list", prefix, err)
		}
		for _, obj := range page.Contents {
			if obj.Key != nil {
				keys = append(keys, *obj.Key)
			}
		}
	}
	return keys, nil
}

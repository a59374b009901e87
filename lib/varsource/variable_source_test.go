package varsource

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	ssmtypes "github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSSM struct {
	values map[string]string
}

func (f *fakeSSM) GetParameter(_ context.Context, in *ssm.GetParameterInput, _ ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
	value, ok := f.values[aws.ToString(in.Name)]
	if !ok {
		return nil, errors.New("ParameterNotFound")
	}
	return &ssm.GetParameterOutput{Parameter: &ssmtypes.Parameter{Value: aws.String(value)}}, nil
}

type fakeSecretsManager struct {
	secrets map[string]string
}

func (f *fakeSecretsManager) GetSecretValue(_ context.Context, in *secretsmanager.GetSecretValueInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	value, ok := f.secrets[aws.ToString(in.SecretId)]
	if !ok {
		return nil, errors.New("ResourceNotFoundException")
	}
	return &secretsmanager.GetSecretValueOutput{SecretString: aws.String(value)}, nil
}

func newFakeSource() *Source {
	return New(
		WithEnv(),
		WithFile(),
		func(s *Source) {
			s.upstreams[prefixAWSSSM] = &ssmUpstream{client: &fakeSSM{values: map[string]string{
				"/evcs/staging/password": "from-ssm",
			}}}
		},
		func(s *Source) {
			s.upstreams[prefixAWSSecretsManager] = &secretsManagerUpstream{client: &fakeSecretsManager{secrets: map[string]string{
				"evcs/plain": "plain-secret",
				"evcs/admin": `{"password":"from-json","pin":1234}`,
			}}}
		},
	)
}

func TestSource_Resolve(t *testing.T) {
	t.Setenv("EVCS_SMOKE_TEST_PASSWORD", "from-env")

	secretFile := filepath.Join(t.TempDir(), "password")
	require.NoError(t, os.WriteFile(secretFile, []byte("from-file\n"), 0o600))

	tests := []struct {
		name    string
		value   string
		want    string
		wantErr string
	}{
		{name: "literal", value: "password", want: "password"},
		{name: "empty", value: "", want: ""},
		{name: "escaped", value: `\${env:EVCS_SMOKE_TEST_PASSWORD}`, want: "${env:EVCS_SMOKE_TEST_PASSWORD}"},
		{name: "env", value: "${env:EVCS_SMOKE_TEST_PASSWORD}", want: "from-env"},
		{name: "env unset", value: "${env:EVCS_SMOKE_TEST_UNSET}", wantErr: "EVCS_SMOKE_TEST_UNSET is empty or unset"},
		{name: "file", value: "${file:" + secretFile + "}", want: "from-file"},
		{name: "file missing", value: "${file:/does/not/exist}", wantErr: "failed to read file"},
		{name: "ssm", value: "${aws:ssm:/evcs/staging/password}", want: "from-ssm"},
		{name: "ssm missing", value: "${aws:ssm:/evcs/nope}", wantErr: "ParameterNotFound"},
		{name: "secret plain", value: "${aws:secretsmanager:evcs/plain}", want: "plain-secret"},
		{name: "secret json key", value: "${aws:secretsmanager:evcs/admin,json_secret_key=password,aws_region=eu-west-1}", want: "from-json"},
		{name: "secret json key missing", value: "${aws:secretsmanager:evcs/admin,json_secret_key=user}", wantErr: `has no key "user"`},
		{name: "secret json key not string", value: "${aws:secretsmanager:evcs/admin,json_secret_key=pin}", wantErr: "is not a string"},
		{name: "secret not json", value: "${aws:secretsmanager:evcs/plain,json_secret_key=password}", wantErr: "is not JSON"},
		{name: "bad option", value: "${aws:secretsmanager:evcs/plain,region}", wantErr: "want key=value"},
		{name: "unknown prefix", value: "${vault:evcs/admin}", wantErr: "no source available"},
	}

	src := newFakeSource()
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := src.Resolve(context.Background(), test.value)
			if test.wantErr != "" {
				assert.ErrorContains(t, err, test.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.want, got)
		})
	}
}

func TestSource_ResolveAll(t *testing.T) {
	t.Setenv("EVCS_SMOKE_TEST_USER", "operator")

	username, password, tenant := "${env:EVCS_SMOKE_TEST_USER}", "${aws:ssm:/evcs/staging/password}", "SYSTEM"
	err := newFakeSource().ResolveAll(context.Background(), map[string]*string{
		"username": &username,
		"password": &password,
		"tenant":   &tenant,
	})
	require.NoError(t, err)
	assert.Equal(t, "operator", username)
	assert.Equal(t, "from-ssm", password)
	assert.Equal(t, "SYSTEM", tenant)

	password = "${env:EVCS_SMOKE_TEST_UNSET}"
	err = newFakeSource().ResolveAll(context.Background(), map[string]*string{"password": &password})
	assert.ErrorContains(t, err, "password: ")
}

func TestNew_DefaultsToEveryUpstream(t *testing.T) {
	src := New()
	assert.Len(t, src.upstreams, 4)
	assert.Equal(t, prefixAWSSecretsManager, src.prefixes[0])
}

// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package metaextractofficelib

import (
	"testing"

	"piishield/internal/testutil/fixtures"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const coreXML = `<?xml version="1.0" encoding="UTF-8"?>` +
	`<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" xmlns:dc="http://purl.org/dc/elements/1.1/">` +
	`<dc:creator>Ravi &amp; Co</dc:creator><cp:revision>3</cp:revision><dc:title></dc:title></cp:coreProperties>`

const customXML = `<?xml version="1.0" encoding="UTF-8"?>` +
	`<Properties xmlns="http://schemas.openxmlformats.org/officeDocument/2006/custom-properties" xmlns:vt="http://schemas.openxmlformats.org/officeDocument/2006/docPropsVTypes">` +
	`<property fmtid="{D5CDD505-2E9C-101B-9397-08002B2CF9AE}" pid="2" name="Reviewer"><vt:lpwstr>Asha</vt:lpwstr></property>` +
	`<property fmtid="{D5CDD505-2E9C-101B-9397-08002B2CF9AE}" pid="3" name="Pages"><vt:i4>4</vt:i4></property>` +
	`</Properties>`

func TestExtractProperties(t *testing.T) {
	data := fixtures.Package(map[string]string{
		"word/document.xml": fixtures.DocumentXML([]string{"body"}),
		CorePart:            coreXML,
		AppPart:             `<Properties><Company>Acme</Company><Pages>4</Pages></Properties>`,
		CustomPart:          customXML,
	})

	props, err := ExtractProperties(data)
	require.NoError(t, err)
	require.Len(t, props, 3)

	assert.Equal(t, "creator", props[0].Name)
	assert.Equal(t, "Ravi & Co", props[0].Value)
	assert.Equal(t, "Ravi &amp; Co", coreXML[props[0].Offset:props[0].Offset+props[0].Length])

	assert.Equal(t, "Company", props[1].Name)
	assert.Equal(t, AppPart, props[1].Part)

	assert.Equal(t, "custom:Reviewer", props[2].Name)
	assert.Equal(t, "Asha", props[2].Value)
	assert.Equal(t, "Asha", customXML[props[2].Offset:props[2].Offset+props[2].Length])
}

func TestExtractPropertiesWithoutDocProps(t *testing.T) {
	_, err := ExtractProperties(fixtures.DOCX([]string{"body"}))
	assert.ErrorIs(t, err, ErrNoMetadata)
}

func TestExtractPropertiesBrokenPart(t *testing.T) {
	data := fixtures.Package(map[string]string{
		"word/document.xml": fixtures.DocumentXML([]string{"body"}),
		CorePart:            `<cp:coreProperties><dc:creator>Ravi</dc:creator>`,
		AppPart:             `<Properties><Manager>Asha</Manager></Properties>`,
	})

	props, err := ExtractProperties(data)
	assert.Error(t, err)
	require.Len(t, props, 1)
	assert.Equal(t, "Manager", props[0].Name)
	assert.Equal(t, "Asha", props[0].Value)
}

func TestExtractPropertiesNotAnArchive(t *testing.T) {
	_, err := ExtractProperties([]byte("plain text"))
	assert.Error(t, err)
}
